package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"messenger/api/handlers"
	"messenger/api/routes"
	"messenger/services"
	"messenger/storage"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handlers.Init(storage.NewMemoryStore(), services.NewMemoryTypingStore())
	r := gin.New()
	routes.PublicApi(r)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}, cookie string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerAndLogin создает пользователя и возвращает его id и session cookie
func registerAndLogin(t *testing.T, r *gin.Engine, username string) (int64, string) {
	t.Helper()

	w := doJSON(r, "POST", "/api/register", map[string]string{
		"username":    username,
		"password":    "s3cret",
		"displayName": username,
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/api/login", map[string]string{
		"username": username,
		"password": "s3cret",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	assert.NotEmpty(t, cookies)

	var resp struct {
		ID int64 `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID, cookies[0].Name + "=" + cookies[0].Value
}

func TestAuthFlow(t *testing.T) {
	r := setupRouter()

	// Без сессии закрытые эндпоинты отвечают 401
	w := doJSON(r, "GET", "/api/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, cookie := registerAndLogin(t, r, "alice")

	w = doJSON(r, "GET", "/api/auth/status", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	var status struct {
		IsAuthenticated bool `json:"isAuthenticated"`
		User            struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.IsAuthenticated)
	assert.Equal(t, "alice", status.User.Username)

	// Неверный пароль
	w = doJSON(r, "POST", "/api/login", map[string]string{"username": "alice", "password": "bad"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Дубликат username
	w = doJSON(r, "POST", "/api/register", map[string]string{"username": "alice", "password": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// После logout сессия мертва
	w = doJSON(r, "POST", "/api/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "GET", "/api/users", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(r, "GET", "/api/auth/status", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	status.IsAuthenticated = true
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.IsAuthenticated)
}

func TestMessagingFlow(t *testing.T) {
	r := setupRouter()
	aliceID, aliceCookie := registerAndLogin(t, r, "alice")
	bobID, bobCookie := registerAndLogin(t, r, "bob")

	w := doJSON(r, "POST", "/api/messages", map[string]interface{}{
		"receiverId": bobID,
		"content":    "hi bob",
	}, aliceCookie)
	assert.Equal(t, http.StatusCreated, w.Code)

	var sent struct {
		ID     int64 `json:"id"`
		IsRead bool  `json:"isRead"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	assert.False(t, sent.IsRead)

	// Получатель открывает диалог - это и есть отметка о прочтении
	w = doJSON(r, "GET", fmt.Sprintf("/api/messages/%d", aliceID), nil, bobCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	var messages []struct {
		ID      int64  `json:"id"`
		Content string `json:"content"`
		IsRead  bool   `json:"isRead"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	assert.Len(t, messages, 1)
	assert.Equal(t, "hi bob", messages[0].Content)

	// Следующий fetch со стороны отправителя видит isRead=true
	w = doJSON(r, "GET", fmt.Sprintf("/api/messages/%d", bobID), nil, aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	assert.Len(t, messages, 1)
	assert.True(t, messages[0].IsRead)

	// Валидация: пустой content и неизвестный получатель
	w = doJSON(r, "POST", "/api/messages", map[string]interface{}{"receiverId": bobID, "content": ""}, aliceCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, "POST", "/api/messages", map[string]interface{}{"receiverId": 999999, "content": "hi"}, aliceCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// mark-read с несуществующим id - успех без эффекта
	w = doJSON(r, "POST", "/api/messages/read", map[string]interface{}{"messageIds": []int64{999999}}, aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/messages/abc", nil, aliceCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteMessageOwnership(t *testing.T) {
	r := setupRouter()
	aliceID, aliceCookie := registerAndLogin(t, r, "alice")
	bobID, bobCookie := registerAndLogin(t, r, "bob")

	w := doJSON(r, "POST", "/api/messages", map[string]interface{}{
		"receiverId": bobID,
		"content":    "to be deleted",
	}, aliceCookie)
	assert.Equal(t, http.StatusCreated, w.Code)
	var sent struct {
		ID int64 `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))

	// Удалять может только отправитель
	w = doJSON(r, "POST", "/api/messages/delete", map[string]interface{}{"messageId": sent.ID}, bobCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "POST", "/api/messages/delete", map[string]interface{}{"messageId": sent.ID}, aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// Tombstone скрывает сообщение у обеих сторон
	w = doJSON(r, "GET", fmt.Sprintf("/api/messages/%d", aliceID), nil, bobCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	var messages []json.RawMessage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	assert.Empty(t, messages)

	// Повторное удаление и неизвестный id - no-op с успешным ответом
	w = doJSON(r, "POST", "/api/messages/delete", map[string]interface{}{"messageId": sent.ID}, aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "POST", "/api/messages/delete", map[string]interface{}{"messageId": 999999}, aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTypingEndpoints(t *testing.T) {
	r := setupRouter()
	aliceID, aliceCookie := registerAndLogin(t, r, "alice")
	bobID, bobCookie := registerAndLogin(t, r, "bob")

	w := doJSON(r, "POST", "/api/typing", map[string]interface{}{
		"receiverId": bobID,
		"isTyping":   true,
	}, aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// Боб видит, что Алиса печатает ему
	w = doJSON(r, "GET", fmt.Sprintf("/api/typing/%d", aliceID), nil, bobCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	var typing struct {
		IsTyping bool `json:"isTyping"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &typing))
	assert.True(t, typing.IsTyping)

	// Обратное направление не затронуто
	w = doJSON(r, "GET", fmt.Sprintf("/api/typing/%d", bobID), nil, aliceCookie)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &typing))
	assert.False(t, typing.IsTyping)

	w = doJSON(r, "POST", "/api/typing", map[string]interface{}{
		"receiverId": bobID,
		"isTyping":   false,
	}, aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "GET", fmt.Sprintf("/api/typing/%d", aliceID), nil, bobCookie)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &typing))
	assert.False(t, typing.IsTyping)
}

func TestPingAndUsersList(t *testing.T) {
	r := setupRouter()
	aliceID, aliceCookie := registerAndLogin(t, r, "alice")
	_, bobCookie := registerAndLogin(t, r, "bob")

	w := doJSON(r, "POST", "/api/ping", nil, aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// Список контактов не содержит самого вызывающего и видит онлайн Алисы
	w = doJSON(r, "GET", "/api/users", nil, bobCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	var users []struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		IsOnline bool   `json:"isOnline"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 1)
	assert.Equal(t, aliceID, users[0].ID)
	assert.True(t, users[0].IsOnline)
}

func TestSettingsEndpoint(t *testing.T) {
	r := setupRouter()
	_, cookie := registerAndLogin(t, r, "alice")

	w := doJSON(r, "POST", "/api/user/settings", map[string]interface{}{"darkMode": true}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	var settings struct {
		DarkMode      bool   `json:"darkMode"`
		Notifications bool   `json:"notifications"`
		Sound         bool   `json:"sound"`
		Language      string `json:"language"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.True(t, settings.DarkMode)
	assert.True(t, settings.Notifications)
	assert.True(t, settings.Sound)
	assert.Equal(t, "en", settings.Language)
}
