package services

import (
	"context"
	"log"
	"time"

	"messenger/config"
	"messenger/storage"
)

// PresenceService ведет флаг online/offline и lastActive.
// Сервер сам никого в offline не переводит: пропавший ping оставляет
// пользователя online, это осознанный пробел модели. Опциональный janitor
// (presence.stale_after_seconds в конфиге) - явное исправление этого
// пробела, по умолчанию выключен.
type PresenceService struct {
	store storage.Store
}

func NewPresenceService(store storage.Store) *PresenceService {
	return &PresenceService{store: store}
}

// MarkOnline ставит online и обновляет lastActive. Вызывается на login и ping.
func (s *PresenceService) MarkOnline(ctx context.Context, userID int64) error {
	if err := s.store.SetUserOnline(ctx, userID, true); err != nil {
		return err
	}
	return s.store.TouchLastActive(ctx, userID, time.Now())
}

// MarkOffline вызывается только явным logout
func (s *PresenceService) MarkOffline(ctx context.Context, userID int64) error {
	return s.store.SetUserOnline(ctx, userID, false)
}

// Touch обновляет lastActive; дергается любым авторизованным запросом,
// трогающим сообщения или presence
func (s *PresenceService) Touch(ctx context.Context, userID int64) error {
	return s.store.TouchLastActive(ctx, userID, time.Now())
}

// StartJanitor запускает фоновую зачистку протухших online-флагов.
// Не делает ничего, пока stale_after_seconds не задан в конфиге.
func (s *PresenceService) StartJanitor(ctx context.Context) {
	conf := config.AppConfig
	if conf == nil || conf.Presence.StaleAfterSeconds <= 0 {
		return
	}
	staleAfter := time.Duration(conf.Presence.StaleAfterSeconds) * time.Second
	interval := time.Duration(conf.Presence.SweepIntervalSeconds) * time.Second

	go func() {
		log.Printf("presence janitor started: stale_after=%s interval=%s", staleAfter, interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("presence janitor stopping")
				return
			case <-ticker.C:
				affected, err := s.store.MarkStaleOffline(ctx, time.Now().Add(-staleAfter))
				if err != nil {
					log.Printf("presence janitor sweep failed: %v", err)
					continue
				}
				if affected > 0 {
					log.Printf("presence janitor marked %d users offline", affected)
				}
			}
		}
	}()
}
