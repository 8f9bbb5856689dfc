package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietpt2003/fpt-playground-realtime/internal/auth"
	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
	"github.com/kietpt2003/fpt-playground-realtime/internal/handler"
	"github.com/kietpt2003/fpt-playground-realtime/internal/hub"
	"github.com/kietpt2003/fpt-playground-realtime/internal/policy"
	"github.com/kietpt2003/fpt-playground-realtime/internal/pubsub"
	"github.com/kietpt2003/fpt-playground-realtime/internal/queue"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: "u1", Email: "u1@example.com", Role: auth.RoleUser}, nil
}

type fakeQueue struct {
	mu      sync.Mutex
	entries []*domain.Message
}

func (q *fakeQueue) Enqueue(_ context.Context, msg *domain.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, msg)
	return nil
}

func (q *fakeQueue) Dequeue(_ context.Context) (*domain.Message, error) {
	return nil, queue.ErrEmpty
}

type fakeChannel struct{}

func (fakeChannel) Publish(context.Context, *pubsub.Envelope) error { return nil }
func (fakeChannel) Subscribe(context.Context) (<-chan *pubsub.Envelope, error) {
	return make(chan *pubsub.Envelope), nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := hub.NewHub(&fakeQueue{}, fakeChannel{}, policy.NewRolePolicy(), "p1", zerolog.Nop())
	go h.Run()

	wsHandler := handler.NewWebsocketHandler(h, stubVerifier{}, zerolog.Nop())
	r := mux.NewRouter()
	r.HandleFunc("/ws", wsHandler.HandleConnection).Methods("GET")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestRejectsMissingToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRejectsInvalidToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws?token=bad")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAcceptsBearerHeader(t *testing.T) {
	srv := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	header := http.Header{"Authorization": {"Bearer good"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	conn.Close()
}

func TestJoinAndRoomDeliveryOverWebSocket(t *testing.T) {
	srv := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good"

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(domain.Frame{
		Type:    "join",
		Payload: domain.JoinRoomPayload{ConversationID: "c1"},
	}))
	require.NoError(t, conn.WriteJSON(domain.Frame{
		Type: "send_room",
		Payload: domain.SendRoomPayload{
			SenderID:       "u1",
			ConversationID: "c1",
			Content:        "hello over the wire",
		},
	}))

	// The sender joined c1, so its own room send comes back to it.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame domain.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, pubsub.EventRoomMessage, frame.Type)

	payload, err := json.Marshal(frame.Payload)
	require.NoError(t, err)
	var msg domain.Message
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "hello over the wire", msg.Content)
	assert.Equal(t, domain.MessageTypeText, msg.Type)
	assert.Equal(t, "u1", msg.SenderID)
}
