package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/payrecord/internal/models"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.Generate(&models.User{Name: "Alice"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "Alice", claims.Subject)
}

func TestJWTManager_Validate(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.Generate(&models.User{Name: "Bob"})
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		_, err := m.Validate("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other", time.Hour)
		_, err := other.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTManager("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNameAuthenticator(t *testing.T) {
	a := NewNameAuthenticator()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain", input: "Alice", want: "Alice"},
		{name: "trimmed", input: "  Bob \t", want: "Bob"},
		{name: "unicode", input: "Zoë", want: "Zoë"},
		{name: "empty", input: "", wantErr: ErrInvalidName},
		{name: "whitespace only", input: "   ", wantErr: ErrInvalidName},
		{name: "too long", input: strings.Repeat("x", 65), wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := a.Authenticate(ctx, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, user.Name)
		})
	}
}
