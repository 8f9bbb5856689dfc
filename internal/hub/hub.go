package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kietpt2003/fpt-playground-realtime/internal/auth"
	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
	"github.com/kietpt2003/fpt-playground-realtime/internal/metrics"
	"github.com/kietpt2003/fpt-playground-realtime/internal/policy"
	"github.com/kietpt2003/fpt-playground-realtime/internal/pubsub"
	"github.com/kietpt2003/fpt-playground-realtime/internal/queue"
)

// ClientFrame bundles a client with one frame it sent.
type ClientFrame struct {
	Client *Client
	Frame  domain.Frame
}

// Hub maintains the set of active clients on this process and handles their
// join and send invocations. Room membership and the per-user connection
// index are process-local and ephemeral; reaching connections on other
// instances is the relay's job, never the hub's.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	byUser  map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	frames     chan *ClientFrame

	queue   queue.Queue
	channel pubsub.Channel
	policy  policy.Policy
	origin  string
	logger  zerolog.Logger
}

// NewHub creates a hub. origin identifies this server instance on the
// broadcast channel.
func NewHub(q queue.Queue, ch pubsub.Channel, pol policy.Policy, origin string, logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		frames:     make(chan *ClientFrame),
		queue:      q,
		channel:    ch,
		policy:     pol,
		origin:     origin,
		logger:     logger.With().Str("component", "hub").Logger(),
	}
}

// Run processes registrations and client frames. Frames from a single
// connection arrive here in the order that connection issued them.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			conns := h.byUser[client.Claims.UserID]
			if conns == nil {
				conns = make(map[*Client]bool)
				h.byUser[client.Claims.UserID] = conns
			}
			conns[client] = true
			h.mu.Unlock()
			metrics.ConnectionsActive.Inc()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if conns, ok := h.byUser[client.Claims.UserID]; ok {
					delete(conns, client)
					if len(conns) == 0 {
						delete(h.byUser, client.Claims.UserID)
					}
				}
				close(client.Send)
				metrics.ConnectionsActive.Dec()
			}
			h.mu.Unlock()
		case frame := <-h.frames:
			h.handleFrame(frame)
		}
	}
}

// Register adds a client to the hub. The hub owns the client's lifecycle from
// here on; its Send channel is closed on unregister.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// ServeWs wires an upgraded connection into the hub.
func (h *Hub) ServeWs(conn *websocket.Conn, claims *auth.Claims) {
	client := NewClient(h, conn, claims)
	h.Register(client)
	go client.writePump()
	go client.readPump()
}

func (h *Hub) handleFrame(cf *ClientFrame) {
	switch cf.Frame.Type {
	case "join":
		h.handleJoin(cf)
	case "send_direct":
		h.handleSendDirect(cf)
	case "send_room":
		h.handleSendRoom(cf)
	default:
		h.sendError(cf.Client, fmt.Sprintf("Unknown frame type: %s", cf.Frame.Type))
	}
}

func (h *Hub) handleJoin(cf *ClientFrame) {
	var payload domain.JoinRoomPayload
	if err := parsePayload(cf.Frame.Payload, &payload); err != nil || payload.ConversationID == "" {
		h.sendError(cf.Client, "Invalid join payload.")
		return
	}
	if !h.policy.Allow(policy.OpJoin, cf.Client.Claims.Role) {
		// Denied silently from the room's perspective: no membership change,
		// no error frame.
		h.logger.Debug().
			Str("userId", cf.Client.Claims.UserID).
			Str("role", cf.Client.Claims.Role).
			Str("conversationId", payload.ConversationID).
			Msg("join denied by policy")
		return
	}
	cf.Client.JoinRoom(payload.ConversationID)
}

func (h *Hub) handleSendDirect(cf *ClientFrame) {
	var payload domain.SendDirectPayload
	if err := parsePayload(cf.Frame.Payload, &payload); err != nil {
		h.sendError(cf.Client, "Invalid send_direct payload.")
		return
	}
	if payload.RecipientID == "" || payload.ConversationID == "" {
		h.sendError(cf.Client, "recipientId and conversationId are required.")
		return
	}
	if err := validateSender(payload.SenderID, payload.MaskedSenderID); err != nil {
		h.sendError(cf.Client, err.Error())
		return
	}
	msg := domain.NewMessage(payload.ConversationID, payload.SenderID, payload.MaskedSenderID, payload.ParentID, payload.Content)
	h.dispatch(cf.Client, msg, payload.RecipientID)
}

func (h *Hub) handleSendRoom(cf *ClientFrame) {
	var payload domain.SendRoomPayload
	if err := parsePayload(cf.Frame.Payload, &payload); err != nil {
		h.sendError(cf.Client, "Invalid send_room payload.")
		return
	}
	if payload.ConversationID == "" {
		h.sendError(cf.Client, "conversationId is required.")
		return
	}
	if err := validateSender(payload.SenderID, payload.MaskedSenderID); err != nil {
		h.sendError(cf.Client, err.Error())
		return
	}
	msg := domain.NewMessage(payload.ConversationID, payload.SenderID, payload.MaskedSenderID, payload.ParentID, payload.Content)
	h.dispatch(cf.Client, msg, "")
}

// dispatch runs the send pipeline: enqueue for persistence, publish for
// cross-instance fan-out, then deliver to connections on this process. An
// empty recipientID means a room send.
func (h *Hub) dispatch(sender *Client, msg *domain.Message, recipientID string) {
	ctx := context.Background()

	// Enqueue before any delivery attempt: a crash past this point still
	// leaves the message recoverable through the persistence consumer.
	if err := h.queue.Enqueue(ctx, msg); err != nil {
		h.logger.Error().Err(err).Str("messageId", msg.ID).Msg("enqueue failed")
		h.sendError(sender, "Failed to accept message.")
		return
	}
	metrics.MessagesEnqueued.Inc()

	event := pubsub.EventRoomMessage
	if recipientID != "" {
		event = pubsub.EventDirectMessage
	}

	// Publish before local delivery so recipients on other processes are not
	// skipped if this process dies mid-delivery. Fan-out is best effort; a
	// publish failure never faults the invocation.
	env := &pubsub.Envelope{Origin: h.origin, Event: event, RecipientID: recipientID, Message: msg}
	if err := h.channel.Publish(ctx, env); err != nil {
		h.logger.Error().Err(err).Str("messageId", msg.ID).Msg("broadcast publish failed")
	}

	if recipientID != "" {
		h.DeliverToUser(recipientID, event, msg)
	} else {
		h.DeliverToRoom(msg.ConversationID, event, msg)
	}
}

// DeliverToUser pushes the message to every connection of userID on this
// process.
func (h *Hub) DeliverToUser(userID, event string, msg *domain.Message) {
	frame, err := json.Marshal(domain.Frame{Type: event, Payload: msg})
	if err != nil {
		h.logger.Error().Err(err).Str("messageId", msg.ID).Msg("marshal delivery frame failed")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.byUser[userID]))
	for client := range h.byUser[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.push(client, frame)
	}
	if len(targets) > 0 {
		metrics.MessagesDelivered.WithLabelValues(event).Add(float64(len(targets)))
	}
}

// DeliverToRoom pushes the message to every connection on this process
// registered in the room.
func (h *Hub) DeliverToRoom(conversationID, event string, msg *domain.Message) {
	frame, err := json.Marshal(domain.Frame{Type: event, Payload: msg})
	if err != nil {
		h.logger.Error().Err(err).Str("messageId", msg.ID).Msg("marshal delivery frame failed")
		return
	}

	h.mu.RLock()
	var targets []*Client
	for client := range h.clients {
		if client.InRoom(conversationID) {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.push(client, frame)
	}
	if len(targets) > 0 {
		metrics.MessagesDelivered.WithLabelValues(event).Add(float64(len(targets)))
	}
}

// push sends a frame to one client if it is still registered.
func (h *Hub) push(client *Client, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.Send <- frame:
	default:
		// Slow consumer: drop the connection rather than stall delivery.
		go func() { h.unregister <- client }()
	}
}

func (h *Hub) sendError(client *Client, content string) {
	frame, err := json.Marshal(domain.Frame{
		Type:    "error_message",
		Payload: domain.SystemPayload{Content: content, Timestamp: time.Now()},
	})
	if err != nil {
		return
	}
	h.push(client, frame)
}

// validateSender enforces that exactly one of the two sender identities is
// set on a user message.
func validateSender(senderID, maskedSenderID string) error {
	if (senderID == "") == (maskedSenderID == "") {
		return errors.New("exactly one of senderId and maskedSenderId must be set")
	}
	return nil
}

func parsePayload(payload interface{}, result interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return errors.New("failed to marshal payload")
	}
	return json.Unmarshal(payloadBytes, result)
}
