package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("relay-secret")

	client, err := OpenRedis(context.Background(), mr.Addr(), "relay-secret", 0)
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())

	_, err = OpenRedis(context.Background(), mr.Addr(), "wrong", 0)
	assert.Error(t, err)

	addr := mr.Addr()
	mr.Close()
	_, err = OpenRedis(context.Background(), addr, "relay-secret", 0)
	assert.ErrorContains(t, err, "redis ping")
}
