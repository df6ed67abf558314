package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"messenger/config"
	"messenger/models"
)

var (
	rabbitConn    *amqp.Connection
	rabbitChannel *amqp.Channel
)

// MessageEvent публикуется после сохранения сообщения. Это не транспорт
// доставки: клиент узнает о сообщении своим опросом, событие нужно
// внешним потребителям (push/email-нотификации, аудит).
type MessageEvent struct {
	Event      string    `json:"event"`
	MessageID  int64     `json:"messageId"`
	SenderID   int64     `json:"senderId"`
	ReceiverID int64     `json:"receiverId"`
	Timestamp  time.Time `json:"timestamp"`
}

// InitRabbitMQ поднимает соединение и exchange. Пустой url в конфиге
// означает, что публикация событий выключена.
func InitRabbitMQ() error {
	if config.AppConfig == nil || config.AppConfig.RabbitMQ.URL == "" {
		log.Println("RabbitMQ is not configured, message events disabled")
		return nil
	}
	url := config.AppConfig.RabbitMQ.URL
	exchange := config.AppConfig.RabbitMQ.Exchange

	var err error
	rabbitConn, err = amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	rabbitChannel, err = rabbitConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := rabbitChannel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	log.Printf("RabbitMQ initialized, exchange: %s", exchange)
	return nil
}

// PublishMessageEvent отправляет событие о новом сообщении.
// Без настроенного RabbitMQ - тихий no-op.
func PublishMessageEvent(ctx context.Context, msg *models.Message) error {
	if rabbitChannel == nil {
		return nil
	}
	event := MessageEvent{
		Event:      "message.sent",
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Timestamp:  msg.Timestamp,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	routingKey := fmt.Sprintf("user.%d", msg.ReceiverID)
	return rabbitChannel.PublishWithContext(ctx,
		config.AppConfig.RabbitMQ.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func CloseRabbitMQ() {
	if rabbitChannel != nil {
		_ = rabbitChannel.Close()
	}
	if rabbitConn != nil {
		_ = rabbitConn.Close()
	}
}
