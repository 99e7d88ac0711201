package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storage "github.com/quang159258/restaurant-storage"
	"github.com/quang159258/restaurant-storage/entity"
	"github.com/quang159258/restaurant-storage/kv"
	"github.com/quang159258/restaurant-storage/session"
)

// The full login flow against one shared store: register a user, log
// in from several devices under the session cap, list the sessions,
// then exceed the cap and watch the oldest login die.
func TestLoginScenario(t *testing.T) {
	ctx := context.Background()
	store, err := kv.NewStore(kv.StoreTypeMemory)
	require.NoError(t, err)

	users := entity.NewUsers(store)
	sessions := session.NewManager(store, session.WithMaxSessionsPerUser(3))

	user, err := users.Save(ctx, &entity.User{Email: "a@x.com"})
	require.NoError(t, err)
	require.Equal(t, "1", user.ID)

	login := func(ua, ip string) string {
		t.Helper()
		require.False(t, sessions.IsDeviceBlocked(ctx, user.ID, ua, ip))
		id, err := sessions.Create(ctx, user.ID, ua, ip)
		require.NoError(t, err)
		return id
	}

	s1 := login("Chrome/1", "1.2.3.4")
	s2 := login("Chrome/1", "1.2.3.4")
	s3 := login("Firefox/9", "9.9.9.9")

	infos, err := sessions.List(ctx, user.ID, s1)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	current := 0
	for _, info := range infos {
		if info.Current {
			current++
			assert.Equal(t, s1, info.ID)
		}
	}
	assert.Equal(t, 1, current, "exactly one entry marked current")

	// Fourth login evicts the oldest session.
	s4 := login("Safari/2", "5.6.7.8")

	_, err = sessions.Validate(ctx, s1)
	assert.ErrorIs(t, err, storage.ErrInvalidSession)

	infos, err = sessions.List(ctx, user.ID, s4)
	require.NoError(t, err)
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ID)
	}
	assert.ElementsMatch(t, []string{s2, s3, s4}, ids)

	// Blocking the Chrome device kills s2 but spares s3 and s4.
	require.NoError(t, sessions.BlockDevice(ctx, user.ID, "Chrome/1", "1.2.3.4"))
	_, err = sessions.Validate(ctx, s2)
	assert.ErrorIs(t, err, storage.ErrInvalidSession)
	for _, id := range []string{s3, s4} {
		_, err := sessions.Validate(ctx, id)
		assert.NoError(t, err)
	}
	assert.True(t, sessions.IsDeviceBlocked(ctx, user.ID, "Chrome/1", "1.2.3.4"))
}
