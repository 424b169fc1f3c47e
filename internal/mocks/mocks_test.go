package mocks_test

import (
	"context"
	"testing"
	"time"

	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/mocks"
)

func TestMockDefaults(t *testing.T) {
	ctx := context.Background()

	if _, err := mocks.NewMockSessionManager().CurrentUser(ctx, "x"); err != domain.ErrSessionNotFound {
		t.Errorf("expected session not found by default, got %v", err)
	}
	if _, err := mocks.NewMockApplicationRepository().FindByID(ctx, "x"); err != domain.ErrApplicationNotFound {
		t.Errorf("expected application not found by default, got %v", err)
	}

	tokens := mocks.NewMockTokenService()
	token, err := tokens.IssueSessionToken(domain.Identity{UserID: "u1", Role: "admin"}, "s1", timeZero())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := tokens.ValidateSessionToken(token)
	if err != nil || claims.SessionID != "s1" || claims.UserID != "u1" {
		t.Errorf("default token round trip failed: %+v, %v", claims, err)
	}

	enforcer := mocks.NewMockCasbinEnforcer()
	tests := []struct {
		sub, obj, act string
		want          bool
	}{
		{"admin", "approveApplication", "dispatch", true},
		{"guest", "authenticate", "dispatch", true},
		{"guest", "getOrders", "dispatch", false},
		{"restaurant", "updateOrderStatus", "dispatch", true},
	}
	for _, tt := range tests {
		got, _ := enforcer.Enforce(tt.sub, tt.obj, tt.act)
		if got != tt.want {
			t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.sub, tt.obj, tt.act, got, tt.want)
		}
	}
}

func timeZero() (t0 time.Time) { return }
