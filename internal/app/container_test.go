package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/you/marketsvc/internal/config"
	"github.com/you/marketsvc/internal/infrastructure/database"
	"github.com/you/marketsvc/internal/wire"
)

func setupContainer(t *testing.T) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.TokenSecret = "test-secret"
	cfg.AdminUsername = "admin"
	cfg.AdminPassHash = string(hash)
	cfg.AllowedOrigins = []string{"*"}

	c, err := NewContainerWith(cfg, db, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, c.Start(ctx))
	return c
}

func dispatchRequest(t *testing.T, h http.Handler, action string, data interface{}, token string) (int, wire.RawResponse) {
	t.Helper()
	body := map[string]interface{}{"action": action, "data": data}
	if token != "" {
		body["sessionId"] = token
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/dispatch", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp wire.RawResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestContainer_AdminSignsInAndReachesAdminRoutes(t *testing.T) {
	c := setupContainer(t)

	code, resp := dispatchRequest(t, c.Handler, "authenticate", map[string]string{"username": "admin", "password": "s3cret"}, "")
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success, resp.Error)

	var session wire.Session
	require.NoError(t, json.Unmarshal(resp.Data, &session))
	assert.Equal(t, "admin", session.Role)
	require.NotEmpty(t, session.Token)

	code, resp = dispatchRequest(t, c.Handler, "getStatistics", nil, session.Token)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success, resp.Error)

	req := httptest.NewRequest(http.MethodGet, "/admin/policies", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, c.Sessions.Active())
}

func TestContainer_GuestAccess(t *testing.T) {
	c := setupContainer(t)

	code, resp := dispatchRequest(t, c.Handler, "getPackages", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success, resp.Error)

	code, resp = dispatchRequest(t, c.Handler, "getStatistics", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Unauthorized", resp.Code)

	code, _ = dispatchRequest(t, c.Handler, "formatDisk", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/statistics.xlsx", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContainer_CORSPreflight(t *testing.T) {
	c := setupContainer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/dispatch", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
