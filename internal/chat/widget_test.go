// internal/chat/widget_test.go
package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"
	"estate-client/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeBackend struct {
	mu       sync.Mutex
	reply    models.ChatReply
	sendErr  error
	saveErr  error
	history  []models.ChatMessage
	sent     []models.ChatRequest
	saved    []models.ChatSaveRequest
	lookedUp []string
}

func (f *fakeBackend) SendChatMessage(_ context.Context, sessionID, text string) (models.ChatReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, models.ChatRequest{Message: text, SessionID: sessionID})
	return f.reply, f.sendErr
}

func (f *fakeBackend) SaveChatMessage(_ context.Context, msg models.ChatSaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, msg)
	return f.saveErr
}

func (f *fakeBackend) ChatHistory(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookedUp = append(f.lookedUp, sessionID)
	return f.history, nil
}

// ==========================
// Core Functionality Tests
// ==========================

func TestNew_SeedsGreeting(t *testing.T) {
	w := New(&fakeBackend{}, "", logger.NewTestLogger(t))

	_, err := uuid.Parse(w.SessionID())
	require.NoError(t, err)

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.SenderBot, msgs[0].Sender)
	assert.Equal(t, "Hello 👋 How can I help you today?", msgs[0].Text)

	assert.NotEqual(t, w.SessionID(), New(&fakeBackend{}, "", logger.NewNoOpLogger()).SessionID())
}

func TestWidget_Send(t *testing.T) {
	backend := &fakeBackend{reply: models.ChatReply{
		Reply:      "Here are two lofts",
		Properties: []models.Listing{{ID: "l1"}, {ID: "l2"}},
	}}
	w := New(backend, "Hi", logger.NewTestLogger(t))

	bot, err := w.Send(context.Background(), "  lofts in Austin ")
	require.NoError(t, err)
	assert.Equal(t, "Here are two lofts", bot.Text)
	assert.Len(t, bot.Properties, 2)

	msgs := w.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.SenderUser, msgs[1].Sender)
	assert.Equal(t, "lofts in Austin", msgs[1].Text)
	assert.Equal(t, models.SenderBot, msgs[2].Sender)

	require.Len(t, backend.sent, 1)
	assert.Equal(t, w.SessionID(), backend.sent[0].SessionID)

	assert.Equal(t, []models.ChatSaveRequest{
		{SessionID: w.SessionID(), Sender: models.SenderUser, Text: "lofts in Austin"},
		{SessionID: w.SessionID(), Sender: models.SenderBot, Text: "Here are two lofts"},
	}, backend.saved)
}

func TestWidget_Send_RejectsBlank(t *testing.T) {
	backend := &fakeBackend{}
	w := New(backend, "", logger.NewTestLogger(t))

	_, err := w.Send(context.Background(), "   ")
	assert.Equal(t, apperrors.ErrCodeEmptyMessage, apperrors.CodeOf(err))
	assert.Len(t, w.Messages(), 1)
	assert.Empty(t, backend.sent)
}

func TestWidget_Send_BackendFailure(t *testing.T) {
	backend := &fakeBackend{sendErr: apperrors.NewNetworkError("POST", "/api/chatbot/message", errors.New("refused"))}
	w := New(backend, "", logger.NewTestLogger(t))

	_, err := w.Send(context.Background(), "hello")
	require.Error(t, err)

	msgs := w.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, FallbackReply, msgs[2].Text)
	assert.Empty(t, backend.saved, "nothing is saved when the reply failed")
}

func TestWidget_Send_SaveFailureIsNotFatal(t *testing.T) {
	backend := &fakeBackend{reply: models.ChatReply{Reply: "ok"}, saveErr: errors.New("db down")}
	w := New(backend, "", logger.NewTestLogger(t))

	bot, err := w.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", bot.Text)
	assert.Len(t, backend.saved, 2)
}

func TestWidget_LoadHistory(t *testing.T) {
	backend := &fakeBackend{history: []models.ChatMessage{
		{Sender: models.SenderUser, Text: "hi"},
		{Sender: models.SenderBot, Text: "hello"},
	}}
	w := Resume(backend, "session-1", "", logger.NewTestLogger(t))

	require.NoError(t, w.LoadHistory(context.Background()))
	assert.Equal(t, []string{"session-1"}, backend.lookedUp)
	assert.Len(t, w.Messages(), 2)

	backend.history = nil
	require.NoError(t, w.LoadHistory(context.Background()))
	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.SenderBot, msgs[0].Sender)
	assert.Equal(t, "session-1", msgs[0].SessionID)
}

func TestWidget_Reset(t *testing.T) {
	w := New(&fakeBackend{reply: models.ChatReply{Reply: "ok"}}, "", logger.NewTestLogger(t))
	first := w.SessionID()
	_, err := w.Send(context.Background(), "hello")
	require.NoError(t, err)

	w.Reset()
	assert.NotEqual(t, first, w.SessionID())
	assert.Len(t, w.Messages(), 1)
}

func TestWidget_ConcurrentSends(t *testing.T) {
	w := New(&fakeBackend{reply: models.ChatReply{Reply: "ok"}}, "", logger.NewNoOpLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Send(context.Background(), "ping")
		}()
	}
	wg.Wait()
	assert.Len(t, w.Messages(), 21)
}
