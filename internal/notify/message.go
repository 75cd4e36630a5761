package notify

// EventType identifies the kind of pushed event.
type EventType string

// EventSnapshotChanged tells the dashboard to re-fetch its membership snapshot.
const EventSnapshotChanged EventType = "snapshot_changed"

// Event is the JSON frame written to subscribers.
type Event struct {
	Type        EventType `json:"type"`
	WorkspaceID string    `json:"workspaceId"`
}
