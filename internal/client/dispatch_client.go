package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/dispatch"
	"github.com/you/marketsvc/internal/wire"
)

// DefaultRequestTimeout bounds one dispatcher round trip
const DefaultRequestTimeout = 15 * time.Second

// RemoteError is a failure reported by the dispatcher. errors.Is matches any
// domain error of the same kind.
type RemoteError struct {
	Status  int
	Kind    domain.ErrorKind
	Message string
}

func (e *RemoteError) Error() string {
	if e.Kind == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RemoteError) Is(target error) bool {
	return e.Kind != "" && domain.KindOf(target) == e.Kind
}

// DispatchClient calls POST /api/dispatch with the token of session
type DispatchClient struct {
	endpoint string
	session  *Session
	timeout  time.Duration
	http     *http.Client
}

// NewDispatchClient creates a client for the server at baseURL. A zero
// timeout means DefaultRequestTimeout.
func NewDispatchClient(baseURL string, session *Session, timeout time.Duration) *DispatchClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &DispatchClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/dispatch",
		session:  session,
		timeout:  timeout,
		http:     &http.Client{},
	}
}

// Call runs action with data and decodes the result into out when out is
// not nil. A round trip slower than the timeout fails with domain.ErrTimeout.
func (c *DispatchClient) Call(ctx context.Context, action dispatch.Action, data interface{}, out interface{}) error {
	req := wire.Request{Action: string(action), SessionID: c.session.Token()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode %s: %w", action, err)
		}
		req.Data = raw
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s: %w", action, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return c.transportError(ctx, action, err)
	}
	defer resp.Body.Close()

	var decoded wire.RawResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.transportError(ctx, action, err)
		}
		return fmt.Errorf("%s: unexpected response (status %d): %w", action, resp.StatusCode, err)
	}
	if !decoded.Success {
		return &RemoteError{Status: resp.StatusCode, Kind: domain.ErrorKind(decoded.Code), Message: decoded.Error}
	}
	if out == nil || len(decoded.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("decode %s result: %w", action, err)
	}
	return nil
}

func (c *DispatchClient) transportError(ctx context.Context, action dispatch.Action, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s after %s: %w", action, c.timeout, domain.ErrTimeout)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// Authenticate signs in as a restaurant and stores the session
func (c *DispatchClient) Authenticate(ctx context.Context, username, password string) (*wire.Session, error) {
	var sess wire.Session
	err := c.Call(ctx, dispatch.ActionAuthenticate, dispatch.AuthenticateRequest{
		Username: username,
		Password: password,
		Role:     domain.RoleRestaurant,
	}, &sess)
	if err != nil {
		return nil, err
	}
	c.session.Set(&sess)
	return &sess, nil
}

// Logout ends the session on the server and always clears it locally
func (c *DispatchClient) Logout(ctx context.Context) error {
	defer c.session.Clear()
	if c.session.Token() == "" {
		return nil
	}
	return c.Call(ctx, dispatch.ActionLogout, nil, nil)
}

// Orders lists the orders of restaurantID
func (c *DispatchClient) Orders(ctx context.Context, restaurantID string) ([]wire.Order, error) {
	var orders []wire.Order
	if err := c.Call(ctx, dispatch.ActionGetOrders, dispatch.GetOrdersRequest{RestaurantID: restaurantID}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to status
func (c *DispatchClient) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) (*wire.Order, error) {
	var order wire.Order
	err := c.Call(ctx, dispatch.ActionUpdateOrderStatus, dispatch.UpdateOrderStatusRequest{
		OrderID: orderID,
		Status:  string(status),
		Note:    note,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
