package ports

import "errors"

const AnyTopic = "*"
const UnspecifiedTopic = ""

var (
	// ErrSubscriptionNotFound is returned when unsubscribing an unknown id.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrInvalidEndpoint is returned when subscribing with an endpoint that is
	// not a valid absolute URI.
	ErrInvalidEndpoint = errors.New("invalid endpoint, must be a valid URI")
)

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// PubSub defines the methods of a pubsub service backed by a persistent
// store of subscriptions.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic string, message string) error
	// Close should be used to gracefully close the connection with the store.
	Close() error
}

// WebhookInfo is the public view of a webhook subscription, secret excluded.
type WebhookInfo interface {
	GetId() string
	GetEvent() string
	GetEndpoint() string
	IsSecured() bool
}
