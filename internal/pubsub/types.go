package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client *pubsub.Client
}

// noop is used when no Google Cloud project is configured.
type noop struct{}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventImportCompleted EventType = "import-completed"
	EventImportFailed    EventType = "import-failed"
)
