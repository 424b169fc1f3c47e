package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/wire"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32

	eventError = "error"
)

// Server upgrades HTTP requests to restaurant sockets and joins them to
// their room once the restaurant-connect message authenticates.
type Server struct {
	hub      *Hub
	sessions domain.SessionManager
	upgrader websocket.Upgrader
}

// NewServer creates a socket server. An empty origin list accepts any origin.
func NewServer(hub *Hub, sessions domain.SessionManager, allowedOrigins []string) *Server {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Server{
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin] || allowed["*"]
			},
		},
	}
}

// Handle is the gin handler for GET /ws
func (s *Server) Handle(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[realtime] upgrade failed: %v", err)
		return
	}

	conn := newConn(ws)
	go conn.writePump()
	s.readPump(c.Request.Context(), conn)
}

func (s *Server) readPump(ctx context.Context, c *conn) {
	defer func() {
		s.hub.Leave(c)
		c.close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env wire.Envelope
		if err := c.ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[realtime] read error: %v", err)
			}
			return
		}

		switch domain.EventName(env.Event) {
		case domain.EventRestaurantConnect:
			room, err := s.authorize(ctx, env.Data)
			if err != nil {
				c.enqueue(eventError, gin.H{"error": err.Error()})
				continue
			}
			s.hub.Join(room, c)
			c.enqueue(string(domain.EventJoined), gin.H{"room": room})
		default:
			c.enqueue(eventError, gin.H{"error": "unknown event " + env.Event})
		}
	}
}

// authorize resolves the room a restaurant-connect message may join.
// Restaurants are confined to their own room; admins may watch any room.
func (s *Server) authorize(ctx context.Context, data json.RawMessage) (string, error) {
	var req wire.Connect
	if err := json.Unmarshal(data, &req); err != nil {
		return "", domain.ErrInvalidPayload
	}
	session, err := s.sessions.CurrentUser(ctx, req.SessionID)
	if err != nil {
		return "", err
	}

	identity := session.Identity
	switch identity.Role {
	case domain.RoleRestaurant:
		if req.RestaurantID == "" {
			return identity.RestaurantID, nil
		}
		if req.RestaurantID != identity.RestaurantID {
			return "", domain.ErrForbidden
		}
		return req.RestaurantID, nil
	case domain.RoleAdmin:
		if req.RestaurantID == "" {
			return "", domain.ErrInvalidPayload
		}
		return req.RestaurantID, nil
	default:
		return "", domain.ErrForbidden
	}
}

// conn is one socket; all writes go through send and the write pump
type conn struct {
	ws   *websocket.Conn
	send chan wire.Envelope
	done chan struct{}
	once sync.Once
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{
		ws:   ws,
		send: make(chan wire.Envelope, sendBuffer),
		done: make(chan struct{}),
	}
}

// Deliver implements Subscriber; a full buffer drops the event
func (c *conn) Deliver(event domain.OrderEvent) bool {
	if event.Order == nil {
		return false
	}
	return c.enqueue(string(event.Name), wire.FromOrderEvent(&event))
}

func (c *conn) enqueue(event string, payload interface{}) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- wire.Envelope{Event: event, Data: raw}:
		return true
	case <-c.done:
		return false
	default:
		log.Printf("[realtime] send buffer full, dropping %s", event)
		return false
	}
}

func (c *conn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case env := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(env); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Printf("[realtime] write error: %v", err)
				}
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
