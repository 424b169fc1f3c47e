package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/wire"
)

// Reconnect defaults
const (
	DefaultReconnectBase    = time.Second
	DefaultReconnectMax     = 30 * time.Second
	DefaultReconnectRetries = 20
)

const (
	writeWait = 10 * time.Second
	readWait  = 90 * time.Second
)

// SupervisorConfig describes the realtime connection to keep alive
type SupervisorConfig struct {
	URL          string
	RestaurantID string
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	MaxRetries   int
}

// Supervisor keeps one restaurant socket connected. Every successful dial
// sends restaurant-connect again; drops are retried with randomized
// exponential backoff until MaxRetries consecutive failures trip the breaker.
type Supervisor struct {
	cfg     SupervisorConfig
	session *Session
	dialer  *websocket.Dialer

	// OnOrder receives each order-created push
	OnOrder func(wire.OrderPush)
	// OnJoined runs after every successful room join
	OnJoined func(room string)

	mu       sync.Mutex
	attempts int
}

// NewSupervisor creates a supervisor authenticating with session
func NewSupervisor(cfg SupervisorConfig, session *Session) *Supervisor {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultReconnectBase
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultReconnectMax
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultReconnectRetries
	}
	return &Supervisor{
		cfg:     cfg,
		session: session,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

// Attempts returns how many connections have been tried
func (s *Supervisor) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *Supervisor) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.BaseDelay
	b.MaxInterval = s.cfg.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(s.cfg.MaxRetries))
}

// Run blocks until ctx ends or the breaker trips with domain.ErrUpstreamUnavailable
func (s *Supervisor) Run(ctx context.Context) error {
	b := s.newBackOff()
	for {
		joined, err := s.connect(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if joined {
			b.Reset()
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			log.Printf("[supervisor] giving up after %d attempts: %v", s.Attempts(), err)
			return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
		}
		log.Printf("[supervisor] connection lost (%v), retrying in %s", err, wait.Round(time.Millisecond))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// connect runs one connection until it drops and reports whether the room
// was joined on it
func (s *Supervisor) connect(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.attempts++
	s.mu.Unlock()

	ws, _, err := s.dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return false, err
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = ws.Close()
		case <-done:
		}
	}()
	defer ws.Close()

	hello, err := json.Marshal(wire.Connect{RestaurantID: s.cfg.RestaurantID, SessionID: s.session.Token()})
	if err != nil {
		return false, err
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteJSON(wire.Envelope{Event: string(domain.EventRestaurantConnect), Data: hello}); err != nil {
		return false, err
	}

	ws.SetPingHandler(func(appData string) error {
		_ = ws.SetReadDeadline(time.Now().Add(readWait))
		return ws.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	joined := false
	for {
		_ = ws.SetReadDeadline(time.Now().Add(readWait))
		var env wire.Envelope
		if err := ws.ReadJSON(&env); err != nil {
			return joined, err
		}

		switch domain.EventName(env.Event) {
		case domain.EventJoined:
			var ack struct {
				Room string `json:"room"`
			}
			_ = json.Unmarshal(env.Data, &ack)
			joined = true
			log.Printf("[supervisor] joined room %s", ack.Room)
			if s.OnJoined != nil {
				s.OnJoined(ack.Room)
			}
		case domain.EventOrderCreated:
			var push wire.OrderPush
			if err := json.Unmarshal(env.Data, &push); err != nil {
				log.Printf("[supervisor] dropping malformed order push: %v", err)
				continue
			}
			if s.OnOrder != nil {
				s.OnOrder(push)
			}
		case "error":
			var e struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(env.Data, &e)
			if !joined {
				return false, errors.New("restaurant-connect rejected: " + e.Error)
			}
			log.Printf("[supervisor] server error: %s", e.Error)
		}
	}
}
