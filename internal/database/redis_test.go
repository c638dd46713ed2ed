package database

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/profile-directory/internal/config"
)

func TestNewRedisClientDisabled(t *testing.T) {
	rdb, err := NewRedisClient(context.Background(), &config.Config{}, zerolog.Nop())

	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "ftp://nope"}, zerolog.Nop())

	assert.ErrorContains(t, err, "parse redis URL")
}

func TestNewPostgresPoolBadURL(t *testing.T) {
	_, err := NewPostgresPool(context.Background(), &config.Config{DatabaseURL: "postgres://%zz"}, zerolog.Nop())

	assert.ErrorContains(t, err, "parse database URL")
}
