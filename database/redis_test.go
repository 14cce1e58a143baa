package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewRedisClientWithoutAddress(t *testing.T) {
	assert.Nil(t, NewRedisClient(context.Background(), "", "", 0, zap.NewNop()))
}
