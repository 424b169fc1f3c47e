package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/you/marketsvc/domain"
)

var constructors = map[Action]func() Request{
	ActionAuthenticate:          func() Request { return &AuthenticateRequest{} },
	ActionLogout:                func() Request { return &LogoutRequest{} },
	ActionMe:                    func() Request { return &MeRequest{} },
	ActionAddApplication:        func() Request { return &AddApplicationRequest{} },
	ActionGetApplications:       func() Request { return &GetApplicationsRequest{} },
	ActionApproveApplication:    func() Request { return &ApproveApplicationRequest{} },
	ActionRejectApplication:     func() Request { return &RejectApplicationRequest{} },
	ActionGetRestaurants:        func() Request { return &GetRestaurantsRequest{} },
	ActionGetRestaurantByUserID: func() Request { return &GetRestaurantByUserIDRequest{} },
	ActionGetPackages:           func() Request { return &GetPackagesRequest{} },
	ActionAddPackage:            func() Request { return &AddPackageRequest{} },
	ActionUpdatePackage:         func() Request { return &UpdatePackageRequest{} },
	ActionDeletePackage:         func() Request { return &DeletePackageRequest{} },
	ActionGetOrders:             func() Request { return &GetOrdersRequest{} },
	ActionCreateOrder:           func() Request { return &CreateOrderRequest{} },
	ActionUpdateOrderStatus:     func() Request { return &UpdateOrderStatusRequest{} },
	ActionGetStatistics:         func() Request { return &GetStatisticsRequest{} },
}

// Actions lists every action the dispatcher understands
func Actions() []Action {
	out := make([]Action, 0, len(constructors))
	for a := range constructors {
		out = append(out, a)
	}
	return out
}

// Decode turns an action name and its JSON data into a typed Request.
// Unknown names fail with domain.ErrInvalidAction.
func Decode(action string, data json.RawMessage) (Request, error) {
	newRequest, ok := constructors[Action(action)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAction, action)
	}
	req := newRequest()
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, req); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
	}
	return req, nil
}
