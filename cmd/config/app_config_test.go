package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewApp_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	app, err := NewApp(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
	assert.Nil(t, app)
}
