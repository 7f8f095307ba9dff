package shared

import (
	"encoding/json"
	"testing"

	"github.com/bookstore-next/internal/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUserID(t *testing.T) {
	c, w := newTestContext()
	_, ok := CurrentUserID(c)
	assert.False(t, ok)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeUnauthorized, body.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.ErrorCode)

	c, w = newTestContext()
	c.Set("user_id", "7")
	_, ok = CurrentUserID(c)
	assert.False(t, ok)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "USER_ID_TYPE_INVALID", body.ErrorCode)

	c, _ = newTestContext()
	c.Set("user_id", uint(7))
	c.Set("user_role", "SELLER")
	id, ok := CurrentUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)
	assert.Equal(t, "SELLER", CurrentUserRole(c))
}

func TestOptionalUserID(t *testing.T) {
	c, _ := newTestContext()
	assert.Zero(t, OptionalUserID(c))
	c.Set("user_id", uint(3))
	assert.Equal(t, uint(3), OptionalUserID(c))
}
