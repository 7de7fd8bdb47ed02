package userstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/omarluq/rolegate/internal/userstore"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := userstore.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestHashPasswordRejectsCost(t *testing.T) {
	t.Parallel()

	_, err := userstore.HashPassword("s3cret", bcrypt.MaxCost+1)
	assert.Error(t, err)
}
