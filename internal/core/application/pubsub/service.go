package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

const (
	EventOfferMade     = "OFFER_MADE"
	EventOfferTaken    = "OFFER_TAKEN"
	EventOfferRefunded = "OFFER_REFUNDED"
)

var (
	// ErrInvalidEvent ...
	ErrInvalidEvent = errors.New("invalid webhook event type")
	// ErrWebhookNotFound ...
	ErrWebhookNotFound = ports.ErrSubscriptionNotFound
	// ErrInvalidEndpoint ...
	ErrInvalidEndpoint = ports.ErrInvalidEndpoint
)

var events = map[string]struct{}{
	EventOfferMade:     {},
	EventOfferTaken:    {},
	EventOfferRefunded: {},
	ports.AnyTopic:     {},
}

type Service struct {
	pubsub ports.PubSub
}

func NewService(pubsub ports.PubSub) (*Service, error) {
	if pubsub == nil {
		return nil, fmt.Errorf("missing pubsub")
	}
	return &Service{pubsub}, nil
}

func (s *Service) PubSub() ports.PubSub {
	return s.pubsub
}

func (s *Service) AddWebhook(
	_ context.Context, event, endpoint, secret string,
) (string, error) {
	if _, ok := events[event]; !ok {
		return "", fmt.Errorf("%w %s", ErrInvalidEvent, event)
	}
	return s.pubsub.Subscribe(event, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

// ListWebhooks returns the subscriptions for the given event, those for any
// event included. An empty event returns all subscriptions.
func (s *Service) ListWebhooks(
	_ context.Context, event string,
) ([]ports.Subscription, error) {
	if _, ok := events[event]; !ok && event != ports.UnspecifiedTopic {
		return nil, fmt.Errorf("%w %s", ErrInvalidEvent, event)
	}
	return s.pubsub.ListSubscriptionsForTopic(event), nil
}

func (s *Service) PublishOfferMadeEvent(
	offer domain.Offer, vault solana.PublicKey, amountOffered uint64,
) error {
	return s.publish(EventOfferMade, map[string]interface{}{
		"offer":                  getOfferPayload(offer),
		"vault":                  vault.String(),
		"token_a_offered_amount": amountOffered,
	})
}

func (s *Service) PublishOfferTakenEvent(
	offer domain.Offer, taker solana.PublicKey, amountReceived uint64,
) error {
	return s.publish(EventOfferTaken, map[string]interface{}{
		"offer":                   getOfferPayload(offer),
		"taker":                   taker.String(),
		"token_a_received_amount": amountReceived,
		"token_b_paid_amount":     offer.TokenBWantedAmount,
	})
}

func (s *Service) PublishOfferRefundedEvent(
	offer domain.Offer, amountRefunded uint64,
) error {
	return s.publish(EventOfferRefunded, map[string]interface{}{
		"offer":                   getOfferPayload(offer),
		"token_a_refunded_amount": amountRefunded,
	})
}

func (s *Service) Close() {
	//nolint
	s.pubsub.Close()
}

func (s *Service) publish(event string, payload map[string]interface{}) error {
	now := time.Now()
	payload["event_id"] = uuid.New().String()
	payload["event"] = event
	payload["timestamp"] = now.Unix()
	payload["date"] = now.Format(time.RFC3339)

	message, _ := json.Marshal(payload)
	return s.pubsub.Publish(event, string(message))
}

func getOfferPayload(offer domain.Offer) map[string]interface{} {
	return map[string]interface{}{
		"id":                    offer.ID,
		"maker":                 offer.Maker.String(),
		"token_mint_a":          offer.TokenMintA.String(),
		"token_mint_b":          offer.TokenMintB.String(),
		"token_b_wanted_amount": offer.TokenBWantedAmount,
	}
}
