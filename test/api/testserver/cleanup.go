//go:build api

package testserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// CleanupBetweenTests resets stored state. Call it first in each test.
func (ts *TestServer) CleanupBetweenTests(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, ts.MongoDB.CleanupCollections(ctx), "clear collections")
	// Snapshots must not outlive the memberships they were built from.
	require.NoError(t, ts.Redis.FlushDB(ctx), "flush snapshot cache")
}
