package database

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultRedisConfig().Addr())
	assert.Equal(t, "[::1]:6380", RedisConfig{Host: "::1", Port: 6380}.Addr())
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := DefaultRedisConfig()
	cfg.Host = mr.Host()
	cfg.Port = port

	client, err := NewRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	check := RedisChecker(client)
	assert.NoError(t, check(context.Background()))

	mr.Close()
	assert.Error(t, check(context.Background()))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	cfg := DefaultRedisConfig()
	cfg.Host = host
	cfg.Port = port

	client, err := NewRedisClient(context.Background(), cfg)
	require.Error(t, err)
	require.NotNil(t, client)
	_ = client.Close()
}
