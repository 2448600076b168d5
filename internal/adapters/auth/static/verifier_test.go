package static

import (
	"context"
	"testing"

	"pet-meds/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier(t *testing.T) {
	assert.Nil(t, New("  ", ""))

	v := New("s3cret", "")
	claims, err := v.Verify(context.Background(), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, DefaultUser, claims.UserID)

	_, err = v.Verify(context.Background(), "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	claims, err = New("x", "ana").Verify(context.Background(), " x ")
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.UserID)
}
