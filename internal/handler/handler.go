package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kietpt2003/fpt-playground-realtime/internal/auth"
	"github.com/kietpt2003/fpt-playground-realtime/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The gateway sits behind the platform's edge; origin checks happen there.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler authenticates and upgrades incoming connections.
type WebsocketHandler struct {
	hub      *hub.Hub
	verifier auth.Verifier
	logger   zerolog.Logger
}

// NewWebsocketHandler creates a new WebsocketHandler.
func NewWebsocketHandler(h *hub.Hub, verifier auth.Verifier, logger zerolog.Logger) *WebsocketHandler {
	return &WebsocketHandler{
		hub:      h,
		verifier: verifier,
		logger:   logger.With().Str("component", "handler").Logger(),
	}
}

// HandleConnection handles GET /ws. The bearer token comes from the
// Authorization header, or from a token query parameter for clients that
// cannot set headers on a WebSocket upgrade.
func (h *WebsocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "Bearer token is required", http.StatusUnauthorized)
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.logger.Debug().Str("userId", claims.UserID).Msg("connection established")
	h.hub.ServeWs(conn, claims)
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
