package wire

import "github.com/you/marketsvc/domain"

func FromOrder(o *domain.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			PackageID:  it.PackageID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
		})
	}
	history := make([]StatusChange, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, StatusChange{Status: string(h.Status), Note: h.Note, At: h.At})
	}
	return Order{
		ID:            o.ID,
		RestaurantID:  o.RestaurantID,
		Customer:      Customer(o.Customer),
		Items:         items,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		Notes:         o.Notes,
		StatusHistory: history,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func FromOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}

// FromOrderEvent builds the push payload for an order-created event
func FromOrderEvent(e *domain.OrderEvent) OrderPush {
	return OrderPush{Order: FromOrder(e.Order), Message: e.Message}
}

func FromApplication(a *domain.Application) Application {
	return Application{
		ID:               a.ID,
		OwnerName:        a.OwnerName,
		Email:            a.Email,
		Phone:            a.Phone,
		BusinessName:     a.BusinessName,
		Category:         a.Category,
		Address:          a.Address,
		City:             a.City,
		Description:      a.Description,
		Status:           string(a.Status),
		RestaurantUserID: a.RestaurantUserID,
		RejectReason:     a.RejectReason,
		ApprovedAt:       a.ApprovedAt,
		ReviewedAt:       a.ReviewedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func FromApplications(apps []*domain.Application) []Application {
	out := make([]Application, 0, len(apps))
	for _, a := range apps {
		out = append(out, FromApplication(a))
	}
	return out
}

func FromUser(u *domain.RestaurantUser) User {
	return User{
		ID:            u.ID,
		Username:      u.Username,
		Role:          u.Role,
		Status:        u.Status,
		Email:         u.Email,
		Phone:         u.Phone,
		ApplicationID: u.ApplicationID,
		CreatedAt:     u.CreatedAt,
	}
}

func FromProfile(p *domain.RestaurantProfile) Profile {
	return Profile{
		ID:            p.ID,
		UserID:        p.UserID,
		ApplicationID: p.ApplicationID,
		BusinessName:  p.BusinessName,
		Category:      p.Category,
		Address:       p.Address,
		Email:         p.Email,
		Phone:         p.Phone,
		Description:   p.Description,
		BusinessHours: p.BusinessHours,
		Status:        p.Status,
		IsVisible:     p.IsVisible,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromRestaurant(v *domain.RestaurantView) Restaurant {
	r := Restaurant{Profile: FromProfile(v.Profile)}
	if v.User != nil {
		u := FromUser(v.User)
		r.User = &u
	}
	if v.Application != nil {
		a := FromApplication(v.Application)
		r.Application = &a
	}
	return r
}

func FromRestaurants(views []*domain.RestaurantView) []Restaurant {
	out := make([]Restaurant, 0, len(views))
	for _, v := range views {
		out = append(out, FromRestaurant(v))
	}
	return out
}

func FromPackage(p *domain.Package) Package {
	return Package{
		ID:                p.ID,
		RestaurantID:      p.RestaurantID,
		Name:              p.Name,
		Description:       p.Description,
		OriginalPrice:     p.OriginalPrice,
		DiscountedPrice:   p.DiscountedPrice,
		Quantity:          p.Quantity,
		RemainingQuantity: p.RemainingQuantity,
		AvailableFrom:     p.AvailableFrom,
		AvailableUntil:    p.AvailableUntil,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func FromPackages(pkgs []*domain.Package) []Package {
	out := make([]Package, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, FromPackage(p))
	}
	return out
}

func FromAuthResult(r *domain.AuthResult) Session {
	s := Session{
		Token:        r.Token,
		SessionID:    r.SessionID,
		ExpiresAt:    r.ExpiresAt,
		UserID:       r.Identity.UserID,
		Username:     r.Identity.Username,
		Role:         r.Identity.Role,
		DisplayName:  r.Identity.DisplayName,
		RestaurantID: r.Identity.RestaurantID,
	}
	if r.Restaurant != nil {
		p := FromProfile(r.Restaurant)
		s.Restaurant = &p
	}
	return s
}

// FromSession omits the token; the caller already holds it
func FromSession(s *domain.Session) Session {
	return Session{
		SessionID:    s.ID,
		ExpiresAt:    s.ExpiresAt,
		UserID:       s.Identity.UserID,
		Username:     s.Identity.Username,
		Role:         s.Identity.Role,
		DisplayName:  s.Identity.DisplayName,
		RestaurantID: s.Identity.RestaurantID,
	}
}

func FromApproval(r *domain.ApprovalResult) Approval {
	return Approval{
		Application: FromApplication(r.Application),
		User:        FromUser(r.User),
		Profile:     FromProfile(r.Profile),
		Username:    r.Credentials.Username,
		Password:    r.Credentials.Password,
	}
}

func FromStatistics(s *domain.Statistics) Statistics {
	return Statistics(*s)
}
