package watcher

// EventType defines the type of event being broadcast.
type EventType string

const (
	EventSnapshotUpdated EventType = "snapshot_updated"
	EventRefreshFailed   EventType = "refresh_failed"
)

// Event represents a monitoring event. Data is a models.MarketSnapshot for
// both types; on failure it is the retained snapshot.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// Subscriber is a channel that receives events.
type Subscriber chan Event
