package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VaclavObornik/prg-chatbot/internal/redis"
)

// roundTrip exercises the Store contract shared by all backends.
func roundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("unknown sender gets fresh state", func(t *testing.T) {
		conv, err := store.Load(ctx, "nobody")
		require.NoError(t, err)
		require.NotNil(t, conv)
		assert.Equal(t, "nobody", conv.SenderID)
		assert.Empty(t, conv.ExpectedAction)
	})

	t.Run("save and reload", func(t *testing.T) {
		conv := New("sender-1")
		conv.ExpectAction("/orders/confirm")
		conv.ExpectKeyword("yes", "/orders/confirm")
		conv.Data["cart"] = "abc"
		conv.LastInteraction = time.Now().UTC().Truncate(time.Second)
		require.NoError(t, store.Save(ctx, conv))

		got, err := store.Load(ctx, "sender-1")
		require.NoError(t, err)
		assert.Equal(t, "/orders/confirm", got.ExpectedAction)
		assert.Equal(t, "/orders/confirm", got.MatchKeyword("yes"))
		assert.Equal(t, "abc", got.Data["cart"])
	})

	t.Run("save overwrites", func(t *testing.T) {
		conv, err := store.Load(ctx, "sender-1")
		require.NoError(t, err)
		conv.ClearExpectations()
		require.NoError(t, store.Save(ctx, conv))

		got, err := store.Load(ctx, "sender-1")
		require.NoError(t, err)
		assert.Empty(t, got.ExpectedAction)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	roundTrip(t, store)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	defer store.Close()
	roundTrip(t, store)
}

func TestSQLStore(t *testing.T) {
	store, err := NewSQLStore("sqlite3", "file:state_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer store.Close()
	roundTrip(t, store)
}

func TestNewSQLStore_UnknownDriver(t *testing.T) {
	_, err := NewSQLStore("mysql", "dsn")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported state store driver")
}
