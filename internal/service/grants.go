package service

import (
	"context"
	"log"
	"sort"

	"workspace-access/internal/cache"
	"workspace-access/internal/catalog"
	"workspace-access/internal/notify"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// normalizeGrants validates grants against the catalog and returns them de-duplicated and sorted.
func normalizeGrants(c *catalog.Catalog, modules, permissions []string) ([]string, []string, error) {
	if err := c.ValidateGrants(modules, permissions); err != nil {
		return nil, nil, err
	}
	return uniqueSorted(modules), uniqueSorted(permissions), nil
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// grantsChanged invalidates the user's cached snapshot and pushes a snapshot_changed event.
// Invalidation bumps the snapshot generation, so a reader that loaded the
// store before this call cannot write its stale copy back.
// A failed invalidation is logged; the entry still expires with its TTL.
func grantsChanged(ctx context.Context, c cache.Cache, n notify.Notifier, userID, workspaceID primitive.ObjectID) {
	if err := c.InvalidateSnapshot(ctx, userID.Hex()); err != nil {
		log.Printf("Failed to invalidate session cache for user %s: %v", userID.Hex(), err)
	}
	n.SnapshotChanged(userID.Hex(), workspaceID.Hex())
}
