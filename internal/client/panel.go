package client

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/wire"
)

// Alert timing and polling defaults
const (
	CueRepeats          = 3
	CueSpacing          = 800 * time.Millisecond
	DefaultPollInterval = 30 * time.Second
)

// Banner is the persistent new-order banner. It stays until the user
// dismisses it or picks an action.
type Banner struct {
	OrderID string
	Title   string
	Message string
	Accept  func(ctx context.Context) error
	Details func()
}

// Alerter is implemented by the panel front end
type Alerter interface {
	PlayCue()
	NotificationsPermitted() bool
	Notify(title, body string) error
	ShowBanner(b Banner)
}

// PanelConfig configures a restaurant panel runtime
type PanelConfig struct {
	ServerURL      string
	SocketURL      string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	Reconnect      SupervisorConfig
}

// Panel ties the session, dispatcher client, order board and realtime
// supervisor together for one signed-in restaurant.
type Panel struct {
	Session    *Session
	Dispatcher *DispatchClient
	Board      *OrderBoard

	cfg        PanelConfig
	alerter    Alerter
	cueSpacing time.Duration
	wg         sync.WaitGroup

	mu      sync.Mutex
	alerted map[string]struct{}
}

// NewPanel creates a panel runtime
func NewPanel(cfg PanelConfig, alerter Alerter) *Panel {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	session := NewSession()
	return &Panel{
		Session:    session,
		Dispatcher: NewDispatchClient(cfg.ServerURL, session, cfg.RequestTimeout),
		Board:      NewOrderBoard(),
		cfg:        cfg,
		alerter:    alerter,
		cueSpacing: CueSpacing,
		alerted:    make(map[string]struct{}),
	}
}

// Login signs in as a restaurant user
func (p *Panel) Login(ctx context.Context, username, password string) (*wire.Session, error) {
	sess, err := p.Dispatcher.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if sess.RestaurantID == "" {
		p.Session.Clear()
		return nil, fmt.Errorf("%s has no restaurant: %w", username, domain.ErrForbidden)
	}
	return sess, nil
}

// Logout ends the session and empties the board
func (p *Panel) Logout(ctx context.Context) error {
	err := p.Dispatcher.Logout(ctx)
	p.Board.Clear()
	p.mu.Lock()
	p.alerted = make(map[string]struct{})
	p.mu.Unlock()
	return err
}

// Reload fetches the full order list and merges it into the board
func (p *Panel) Reload(ctx context.Context) error {
	sess := p.Session.CurrentUser()
	if sess == nil {
		return domain.ErrSessionExpired
	}
	orders, err := p.Dispatcher.Orders(ctx, sess.RestaurantID)
	if err != nil {
		return err
	}
	if added := p.Board.Reconcile(orders); added > 0 {
		log.Printf("[panel] reconciliation found %d new orders", added)
	}
	return nil
}

// Accept confirms a pending order
func (p *Panel) Accept(ctx context.Context, orderID string) error {
	order, err := p.Dispatcher.UpdateOrderStatus(ctx, orderID, domain.OrderConfirmed, "")
	if err != nil {
		return err
	}
	p.Board.Apply(*order)
	return nil
}

// Run keeps the socket connected and polls every PollInterval until ctx
// ends or the reconnect breaker trips
func (p *Panel) Run(ctx context.Context) error {
	sess := p.Session.CurrentUser()
	if sess == nil {
		return domain.ErrSessionExpired
	}

	rc := p.cfg.Reconnect
	rc.URL = p.cfg.SocketURL
	rc.RestaurantID = sess.RestaurantID
	sup := NewSupervisor(rc, p.Session)
	sup.OnOrder = func(push wire.OrderPush) { p.HandlePush(ctx, push) }
	sup.OnJoined = func(string) { p.reload(ctx) }

	pollCtx, stopPoll := context.WithCancel(ctx)
	defer stopPoll()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				p.reload(pollCtx)
			}
		}
	}()

	err := sup.Run(ctx)
	stopPoll()
	p.wg.Wait()
	return err
}

// HandlePush reacts to an order-created push: board merge, audio cue,
// native notification, banner and a full reload. Each order alerts once,
// even when a poll put it on the board before its push arrived.
func (p *Panel) HandlePush(ctx context.Context, push wire.OrderPush) {
	order := push.Order
	if order.ID == "" {
		return
	}
	p.Board.Apply(order)
	if !p.firstPush(order.ID) {
		return
	}

	title := "New order"
	body := push.Message
	if body == "" {
		body = fmt.Sprintf("Order from %s, total %.2f", order.Customer.Name, order.TotalPrice)
	}

	if p.alerter != nil {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.playCue(ctx)
		}()

		if p.alerter.NotificationsPermitted() {
			if err := p.alerter.Notify(title, body); err != nil {
				log.Printf("[panel] native notification failed: %v", err)
			}
		}

		p.alerter.ShowBanner(Banner{
			OrderID: order.ID,
			Title:   title,
			Message: body,
			Accept:  func(ctx context.Context) error { return p.Accept(ctx, order.ID) },
			Details: func() { p.Board.Highlight(order.ID) },
		})
	}

	p.reload(ctx)
}

func (p *Panel) firstPush(orderID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.alerted[orderID]; ok {
		return false
	}
	p.alerted[orderID] = struct{}{}
	return true
}

func (p *Panel) playCue(ctx context.Context) {
	for i := 0; i < CueRepeats; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.cueSpacing):
			}
		}
		p.alerter.PlayCue()
	}
}

// reload logs failures; the next poll retries
func (p *Panel) reload(ctx context.Context) {
	if err := p.Reload(ctx); err != nil && ctx.Err() == nil {
		log.Printf("[panel] reload failed: %v", err)
	}
}

// Wait blocks until background alerts and polls have finished
func (p *Panel) Wait() {
	p.wg.Wait()
}
