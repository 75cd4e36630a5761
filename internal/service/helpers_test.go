package service

import (
	"sync"
	"testing"

	"workspace-access/internal/catalog"

	"github.com/stretchr/testify/require"
)

type notification struct {
	userID      string
	workspaceID string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) SnapshotChanged(userID, workspaceID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{userID: userID, workspaceID: workspaceID})
}

func (n *recordingNotifier) sent() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.events...)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}
