package pubsub

// PubSubClient publishes import events.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	Close() error
}
