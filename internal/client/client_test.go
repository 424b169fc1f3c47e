package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/dispatch"
	"github.com/you/marketsvc/internal/http/handlers"
	"github.com/you/marketsvc/internal/mocks"
	"github.com/you/marketsvc/internal/realtime"
	"github.com/you/marketsvc/internal/wire"
)

type dispatchFunc func(ctx context.Context, action string, data json.RawMessage, token string) (interface{}, error)

func (f dispatchFunc) Dispatch(ctx context.Context, action string, data json.RawMessage, token string) (interface{}, error) {
	return f(ctx, action, data, token)
}

// fakeMarket is a dispatcher endpoint plus a realtime socket for room R
type fakeMarket struct {
	mu       sync.Mutex
	calls    map[string]int
	statuses map[string]string

	hub    *realtime.Hub
	server *httptest.Server
}

func (m *fakeMarket) count(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[action]
}

func (m *fakeMarket) httpURL() string { return m.server.URL }
func (m *fakeMarket) wsURL() string   { return "ws" + strings.TrimPrefix(m.server.URL, "http") + "/ws" }

func newFakeMarket(t *testing.T, rejectFirstConnect bool) *fakeMarket {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := &fakeMarket{calls: make(map[string]int), statuses: make(map[string]string), hub: realtime.NewHub(true)}

	sessions := mocks.NewMockSessionManager()
	var connects int
	var connectsMu sync.Mutex
	sessions.CurrentUserFunc = func(_ context.Context, token string) (*domain.Session, error) {
		connectsMu.Lock()
		connects++
		n := connects
		connectsMu.Unlock()
		if rejectFirstConnect && n == 1 {
			return nil, domain.ErrSessionNotFound
		}
		if token != "tok" {
			return nil, domain.ErrSessionNotFound
		}
		return &domain.Session{Token: token, Identity: domain.Identity{UserID: "u-1", Role: domain.RoleRestaurant, RestaurantID: "R"}}, nil
	}

	stub := dispatchFunc(func(ctx context.Context, action string, data json.RawMessage, token string) (interface{}, error) {
		m.mu.Lock()
		m.calls[action]++
		m.mu.Unlock()

		switch dispatch.Action(action) {
		case dispatch.ActionAuthenticate:
			var req dispatch.AuthenticateRequest
			_ = json.Unmarshal(data, &req)
			if req.Password != "pw" {
				return nil, domain.ErrInvalidCredentials
			}
			return wire.Session{Token: "tok", Role: domain.RoleRestaurant, RestaurantID: "R", ExpiresAt: time.Now().Add(time.Hour)}, nil
		case dispatch.ActionLogout:
			return map[string]bool{"loggedOut": true}, nil
		}
		if token != "tok" {
			return nil, domain.ErrUnauthorized
		}
		switch dispatch.Action(action) {
		case dispatch.ActionGetOrders:
			return []wire.Order{{ID: "o-old", RestaurantID: "R", Status: "ready"}}, nil
		case dispatch.ActionUpdateOrderStatus:
			var req dispatch.UpdateOrderStatusRequest
			_ = json.Unmarshal(data, &req)
			m.mu.Lock()
			m.statuses[req.OrderID] = req.Status
			m.mu.Unlock()
			return wire.Order{ID: req.OrderID, RestaurantID: "R", Status: req.Status, UpdatedAt: time.Now()}, nil
		case "slow":
			select {
			case <-ctx.Done():
			case <-time.After(2 * time.Second):
			}
			return nil, nil
		}
		return nil, domain.ErrInvalidAction
	})

	r := gin.New()
	r.POST("/api/dispatch", handlers.NewDispatchHandlers(stub).Dispatch)
	r.GET("/ws", realtime.NewServer(m.hub, sessions, nil).Handle)
	m.server = httptest.NewServer(r)
	t.Cleanup(m.server.Close)
	return m
}

type recordingAlerter struct {
	mu        sync.Mutex
	cues      int
	permitted bool
	notes     []string
	banners   []Banner
}

func (a *recordingAlerter) PlayCue() {
	a.mu.Lock()
	a.cues++
	a.mu.Unlock()
}

func (a *recordingAlerter) NotificationsPermitted() bool { return a.permitted }

func (a *recordingAlerter) Notify(title, body string) error {
	a.mu.Lock()
	a.notes = append(a.notes, title+": "+body)
	a.mu.Unlock()
	return nil
}

func (a *recordingAlerter) ShowBanner(b Banner) {
	a.mu.Lock()
	a.banners = append(a.banners, b)
	a.mu.Unlock()
}

func (a *recordingAlerter) snapshot() (int, int, []Banner) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cues, len(a.notes), append([]Banner(nil), a.banners...)
}

func TestSession_LazyExpiry(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	s := NewSession()
	s.now = func() time.Time { return now }

	assert.Nil(t, s.CurrentUser())
	s.Set(&wire.Session{Token: "tok", ExpiresAt: t0.Add(24 * time.Hour)})

	now = t0.Add(24 * time.Hour)
	require.NotNil(t, s.CurrentUser(), "valid up to and including expiresAt")
	assert.Equal(t, "tok", s.Token())

	now = t0.Add(24*time.Hour + time.Nanosecond)
	assert.Nil(t, s.CurrentUser())

	// cleared as a side effect, so rewinding the clock does not revive it
	now = t0
	assert.Nil(t, s.CurrentUser())
	assert.Equal(t, "", s.Token())

	s.Set(&wire.Session{Token: "tok2", ExpiresAt: t0.Add(time.Hour)})
	s.Clear()
	assert.Nil(t, s.CurrentUser())
}

func TestOrderBoard_MergeByID(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := NewOrderBoard()

	pushed := wire.Order{ID: "o1", Status: "pending", CreatedAt: t0, UpdatedAt: t0}
	assert.True(t, b.Apply(pushed))
	assert.False(t, b.Apply(pushed), "second copy of the same order is a no-op")
	assert.Equal(t, 1, b.Len())

	confirmed := pushed
	confirmed.Status = "confirmed"
	confirmed.UpdatedAt = t0.Add(time.Minute)
	assert.Equal(t, 1, b.Reconcile([]wire.Order{confirmed, {ID: "o2", CreatedAt: t0.Add(time.Second)}, {}}))
	assert.Equal(t, 2, b.Len())

	assert.False(t, b.Apply(pushed), "stale push does not overwrite a newer poll")
	got, ok := b.Get("o1")
	require.True(t, ok)
	assert.Equal(t, "confirmed", got.Status)

	orders := b.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)

	b.Highlight("o1")
	assert.Equal(t, "o1", b.Highlighted())
	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.Highlighted())
}

func TestDispatchClient_Call(t *testing.T) {
	market := newFakeMarket(t, false)
	ctx := context.Background()

	session := NewSession()
	c := NewDispatchClient(market.httpURL(), session, 0)

	_, err := c.Authenticate(ctx, "shop", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, domain.KindInvalidCredentials, remote.Kind)
	assert.Equal(t, 200, remote.Status)
	assert.Nil(t, session.CurrentUser())

	sess, err := c.Authenticate(ctx, "shop", "pw")
	require.NoError(t, err)
	assert.Equal(t, "R", sess.RestaurantID)
	assert.Equal(t, "tok", session.Token())

	orders, err := c.Orders(ctx, "R")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	err = c.Call(ctx, "dropTables", nil, nil)
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 400, remote.Status)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	require.NoError(t, c.Logout(ctx))
	assert.Nil(t, session.CurrentUser())
	_, err = c.Orders(ctx, "R")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDispatchClient_Timeout(t *testing.T) {
	market := newFakeMarket(t, false)
	session := NewSession()
	session.Set(&wire.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)})
	c := NewDispatchClient(market.httpURL(), session, 50*time.Millisecond)

	err := c.Call(context.Background(), "slow", nil, nil)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Equal(t, domain.KindTimeout, domain.KindOf(err))
}

func TestSupervisor_JoinsAndReceivesPush(t *testing.T) {
	market := newFakeMarket(t, true)
	session := NewSession()
	session.Set(&wire.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)})

	sup := NewSupervisor(SupervisorConfig{
		URL:        market.wsURL(),
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		MaxRetries: 5,
	}, session)
	joined := make(chan string, 4)
	pushes := make(chan wire.OrderPush, 4)
	sup.OnJoined = func(room string) { joined <- room }
	sup.OnOrder = func(p wire.OrderPush) { pushes <- p }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()

	select {
	case room := <-joined:
		assert.Equal(t, "R", room)
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor never joined")
	}
	assert.Equal(t, 2, sup.Attempts(), "first restaurant-connect was rejected and retried")

	order := &domain.Order{ID: "o-1", RestaurantID: "R", Status: domain.OrderPending}
	n, err := market.hub.PublishOrderCreated(ctx, domain.NewOrderCreatedEvent(order))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	select {
	case p := <-pushes:
		assert.Equal(t, "o-1", p.Order.ID)
	case <-time.After(3 * time.Second):
		t.Fatal("push not received")
	}
	// legacy duplicates are ignored by the client
	select {
	case p := <-pushes:
		t.Fatalf("unexpected second push %s", p.Order.ID)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}

func TestSupervisor_BreakerTrips(t *testing.T) {
	market := newFakeMarket(t, false)
	url := market.wsURL()
	market.server.Close()

	session := NewSession()
	sup := NewSupervisor(SupervisorConfig{
		URL:        url,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		MaxRetries: 3,
	}, session)

	err := sup.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 4, sup.Attempts(), "initial dial plus three retries")
}

func TestPanel_HandlePush(t *testing.T) {
	market := newFakeMarket(t, false)
	ctx := context.Background()
	alerter := &recordingAlerter{permitted: true}

	p := NewPanel(PanelConfig{ServerURL: market.httpURL()}, alerter)
	p.cueSpacing = time.Millisecond
	_, err := p.Login(ctx, "shop", "pw")
	require.NoError(t, err)

	push := wire.OrderPush{Order: wire.Order{ID: "o-new", RestaurantID: "R", Status: "pending", TotalPrice: 40}}
	p.HandlePush(ctx, push)
	p.HandlePush(ctx, push)
	p.Wait()

	cues, notes, banners := alerter.snapshot()
	assert.Equal(t, CueRepeats, cues)
	assert.Equal(t, 1, notes)
	require.Len(t, banners, 1)
	assert.Equal(t, "o-new", banners[0].OrderID)
	assert.Equal(t, 1, market.count("getOrders"), "one reload for the one new order")
	assert.Equal(t, 2, p.Board.Len())

	banners[0].Details()
	assert.Equal(t, "o-new", p.Board.Highlighted())

	require.NoError(t, banners[0].Accept(ctx))
	got, _ := p.Board.Get("o-new")
	assert.Equal(t, "confirmed", got.Status)
	market.mu.Lock()
	assert.Equal(t, "confirmed", market.statuses["o-new"])
	market.mu.Unlock()
}

func TestPanel_HandlePush_AlertsForPolledOrder(t *testing.T) {
	market := newFakeMarket(t, false)
	ctx := context.Background()
	alerter := &recordingAlerter{permitted: true}

	p := NewPanel(PanelConfig{ServerURL: market.httpURL()}, alerter)
	p.cueSpacing = time.Millisecond
	_, err := p.Login(ctx, "shop", "pw")
	require.NoError(t, err)
	require.NoError(t, p.Reload(ctx))
	_, onBoard := p.Board.Get("o-old")
	require.True(t, onBoard)

	push := wire.OrderPush{Order: wire.Order{ID: "o-old", RestaurantID: "R", Status: "ready"}}
	p.HandlePush(ctx, push)
	p.HandlePush(ctx, push)
	p.Wait()

	cues, notes, banners := alerter.snapshot()
	assert.Equal(t, CueRepeats, cues)
	assert.Equal(t, 1, notes)
	require.Len(t, banners, 1)
	assert.Equal(t, "o-old", banners[0].OrderID)
	assert.Equal(t, 1, p.Board.Len())
}

func TestPanel_NoNativeNotificationWithoutPermission(t *testing.T) {
	market := newFakeMarket(t, false)
	ctx := context.Background()
	alerter := &recordingAlerter{}

	p := NewPanel(PanelConfig{ServerURL: market.httpURL()}, alerter)
	p.cueSpacing = time.Millisecond
	_, err := p.Login(ctx, "shop", "pw")
	require.NoError(t, err)

	p.HandlePush(ctx, wire.OrderPush{Order: wire.Order{ID: "o-new", RestaurantID: "R"}})
	p.Wait()

	cues, notes, banners := alerter.snapshot()
	assert.Equal(t, CueRepeats, cues)
	assert.Equal(t, 0, notes)
	assert.Len(t, banners, 1)
}

func TestPanel_Run(t *testing.T) {
	market := newFakeMarket(t, false)
	alerter := &recordingAlerter{}

	p := NewPanel(PanelConfig{
		ServerURL:    market.httpURL(),
		SocketURL:    market.wsURL(),
		PollInterval: time.Hour,
		Reconnect:    SupervisorConfig{BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}, alerter)
	p.cueSpacing = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.ErrorIs(t, p.Run(ctx), domain.ErrSessionExpired, "no session yet")

	_, err := p.Login(ctx, "shop", "pw")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return market.hub.Members("R") == 1 }, 3*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return p.Board.Len() == 1 }, 3*time.Second, 10*time.Millisecond, "join triggers a reload")

	order := &domain.Order{ID: "o-live", RestaurantID: "R", Status: domain.OrderPending}
	_, err = market.hub.PublishOrderCreated(ctx, domain.NewOrderCreatedEvent(order))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := p.Board.Get("o-live")
		return ok
	}, 3*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		cues, _, _ := alerter.snapshot()
		return cues == CueRepeats
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("panel did not stop")
	}
}
