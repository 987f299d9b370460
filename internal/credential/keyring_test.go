package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailbuckets/internal/model"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New(keyring.NewArrayKeyring(nil))

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("k", "v"))
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))

	_, err = s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveMailPassword(t *testing.T) {
	s := New(keyring.NewArrayKeyring(nil))
	require.NoError(t, s.Set(MailPasswordKey("me@example.com"), "app-pass"))

	cfg := model.MailConfig{Address: "me@example.com"}
	require.NoError(t, s.ResolveMailPassword(&cfg))
	assert.Equal(t, "app-pass", cfg.Password)

	cfg = model.MailConfig{Address: "me@example.com", Password: "from-env"}
	require.NoError(t, s.ResolveMailPassword(&cfg))
	assert.Equal(t, "from-env", cfg.Password)

	cfg = model.MailConfig{Address: "other@example.com"}
	require.NoError(t, s.ResolveMailPassword(&cfg))
	assert.Empty(t, cfg.Password)
}
