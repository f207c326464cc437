package session

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	tok, err := tokens.Issue("sid-1")
	require.NoError(t, err)

	id, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", id)
}

func TestTokens_IssueRequiresID(t *testing.T) {
	_, err := NewTokens("secret", 0).Issue("")
	assert.Error(t, err)
}

func TestTokens_RejectsForeignSecret(t *testing.T) {
	tok, err := NewTokens("one", 0).Issue("sid")
	require.NoError(t, err)

	_, err = NewTokens("two", 0).Parse(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokens_RejectsTampered(t *testing.T) {
	tokens := NewTokens("secret", 0)
	tok, err := tokens.Issue("sid")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"jti":"other","iss":"pharma-console"}`))
	_, err = tokens.Parse(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Expiry(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	start := time.Now()
	tokens.now = func() time.Time { return start }

	tok, err := tokens.Issue("sid")
	require.NoError(t, err)

	tokens.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
