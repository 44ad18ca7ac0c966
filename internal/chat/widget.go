// internal/chat/widget.go
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"estate-client/internal/common/config"
	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"
	"estate-client/internal/models"

	"github.com/google/uuid"
)

// FallbackReply is shown when the assistant cannot be reached.
const FallbackReply = "Sorry, I couldn't reach the assistant. Please try again."

// Backend is the chatbot endpoint group of the API client.
type Backend interface {
	SendChatMessage(ctx context.Context, sessionID, text string) (models.ChatReply, error)
	SaveChatMessage(ctx context.Context, msg models.ChatSaveRequest) error
	ChatHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}

// Widget holds one chat conversation.
type Widget struct {
	mu        sync.Mutex
	sessionID string
	greeting  string
	messages  []models.ChatMessage

	backend Backend
	logger  logger.Logger
	now     func() time.Time
}

// New starts a conversation with a fresh session id. An empty greeting uses
// the default one.
func New(backend Backend, greeting string, log logger.Logger) *Widget {
	if greeting == "" {
		greeting = config.DefaultGreeting
	}
	w := &Widget{
		sessionID: uuid.NewString(),
		greeting:  greeting,
		backend:   backend,
		logger:    log.WithFields(map[string]interface{}{"component": "chat"}),
		now:       time.Now,
	}
	w.messages = []models.ChatMessage{w.greetingMessage()}
	return w
}

// Resume continues a conversation under an existing session id.
func Resume(backend Backend, sessionID, greeting string, log logger.Logger) *Widget {
	w := New(backend, greeting, log)
	w.sessionID = sessionID
	w.messages[0].SessionID = sessionID
	return w
}

func (w *Widget) greetingMessage() models.ChatMessage {
	return models.ChatMessage{SessionID: w.sessionID, Sender: models.SenderBot, Text: w.greeting, CreatedAt: w.now()}
}

func (w *Widget) SessionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionID
}

// Messages returns a copy of the conversation.
func (w *Widget) Messages() []models.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.ChatMessage, len(w.messages))
	copy(out, w.messages)
	return out
}

func (w *Widget) append(msg models.ChatMessage) {
	w.mu.Lock()
	w.messages = append(w.messages, msg)
	w.mu.Unlock()
}

// Send posts a user message and appends the bot reply. Both sides are then
// saved to the history; save failures are logged only.
func (w *Widget) Send(ctx context.Context, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, apperrors.NewEmptyMessageError()
	}
	sessionID := w.SessionID()

	w.append(models.ChatMessage{SessionID: sessionID, Sender: models.SenderUser, Text: text, CreatedAt: w.now()})

	reply, err := w.backend.SendChatMessage(ctx, sessionID, text)
	if err != nil {
		w.logger.Warn("Chat message failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		w.append(models.ChatMessage{SessionID: sessionID, Sender: models.SenderBot, Text: FallbackReply, CreatedAt: w.now()})
		return models.ChatMessage{}, err
	}

	bot := models.ChatMessage{
		SessionID:  sessionID,
		Sender:     models.SenderBot,
		Text:       reply.Reply,
		Properties: reply.Properties,
		CreatedAt:  w.now(),
	}
	w.append(bot)

	w.save(ctx, models.ChatSaveRequest{SessionID: sessionID, Sender: models.SenderUser, Text: text})
	w.save(ctx, models.ChatSaveRequest{SessionID: sessionID, Sender: models.SenderBot, Text: bot.Text})

	w.logger.Debug("Chat reply received", map[string]interface{}{
		"sessionId":   sessionID,
		"suggestions": len(bot.Properties),
	})
	return bot, nil
}

func (w *Widget) save(ctx context.Context, msg models.ChatSaveRequest) {
	if err := w.backend.SaveChatMessage(ctx, msg); err != nil {
		w.logger.Warn("Chat message not saved", map[string]interface{}{
			"sessionId": msg.SessionID,
			"sender":    string(msg.Sender),
			"error":     err.Error(),
		})
	}
}

// LoadHistory replaces the conversation with the stored history. An empty
// history keeps the greeting.
func (w *Widget) LoadHistory(ctx context.Context) error {
	sessionID := w.SessionID()
	history, err := w.backend.ChatHistory(ctx, sessionID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(history) == 0 {
		w.messages = []models.ChatMessage{w.greetingMessage()}
		return nil
	}
	w.messages = append([]models.ChatMessage(nil), history...)
	return nil
}

// Reset starts a new session with only the greeting.
func (w *Widget) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sessionID = uuid.NewString()
	w.messages = []models.ChatMessage{w.greetingMessage()}
}
