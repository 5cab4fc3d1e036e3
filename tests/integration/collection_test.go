package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/geordanr/xwing-backend/internal/services"
	"github.com/geordanr/xwing-backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionService_Integration_GetOrCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewCollectionService(fixtures.Store())
	ctx := context.Background()

	alice := fixtures.CreateUser(t, "google", "alice")

	first, err := svc.GetOrCreate(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "collection_"+alice.ID, first.ID)
	assert.JSONEq(t, `{}`, string(first.Expansions))
	assert.JSONEq(t, `{}`, string(first.Singletons))

	// Repeat access returns the same collection, not a new one.
	second, err := svc.GetOrCreate(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCollectionService_Integration_UpdateReplacesWholesale(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewCollectionService(fixtures.Store())
	ctx := context.Background()

	alice := fixtures.CreateUser(t, "google", "alice")

	err := svc.Update(ctx, alice.ID,
		json.RawMessage(`{"Core Set":2,"X-Wing Expansion Pack":4}`),
		json.RawMessage(`{"Millennium Falcon":1}`),
	)
	require.NoError(t, err)

	coll, err := svc.GetOrCreate(ctx, alice.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Core Set":2,"X-Wing Expansion Pack":4}`, string(coll.Expansions))
	assert.JSONEq(t, `{"Millennium Falcon":1}`, string(coll.Singletons))

	// A later update replaces the whole document rather than merging.
	err = svc.Update(ctx, alice.ID, json.RawMessage(`{"Core Set":1}`), json.RawMessage(`{}`))
	require.NoError(t, err)

	coll, err = svc.GetOrCreate(ctx, alice.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Core Set":1}`, string(coll.Expansions))
	assert.JSONEq(t, `{}`, string(coll.Singletons))

	// Each user keeps their own collection.
	bob := fixtures.CreateUser(t, "google", "bob")
	bobColl, err := svc.GetOrCreate(ctx, bob.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(bobColl.Expansions))
}
