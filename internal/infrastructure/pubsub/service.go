package pubsub

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const DefaultRequestTimeout = 15 * time.Second

var errSubscriptionNotFound = ports.ErrSubscriptionNotFound

type service struct {
	store    *store
	notifier *notifier
	cb       *gobreaker.CircuitBreaker
	limiter  ratelimit.Limiter
}

// NewService returns a webhook pubsub whose subscriptions are stored in the
// given datadir. Requests to subscribers time out after requestTimeout and
// are throttled to at most rateLimit per second, if greater than zero.
func NewService(
	datadir string, requestTimeout time.Duration, rateLimit int,
) (ports.PubSub, error) {
	if len(datadir) <= 0 {
		return nil, fmt.Errorf("missing datadir")
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	store, err := newStore(datadir)
	if err != nil {
		return nil, fmt.Errorf("opening pubsub store: %w", err)
	}

	limiter := ratelimit.NewUnlimited()
	if rateLimit > 0 {
		limiter = ratelimit.New(rateLimit)
	}

	return &service{
		store:    store,
		notifier: newNotifier(requestTimeout),
		cb:       circuitbreaker.NewCircuitBreaker("webhooks"),
		limiter:  limiter,
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	wh, err := newWebhook(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	if err := ws.store.addWebhook(wh); err != nil {
		return "", err
	}
	return wh.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	_, err := ws.store.removeWebhook(id)
	return err
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listWebhooks(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	whs := ws.listWebhooks(topic)

	eg := &errgroup.Group{}
	for i := range whs {
		wh := whs[i]
		eg.Go(func() error {
			if err := ws.deliver(topic, wh, message); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"webhook":  wh.ID,
					"endpoint": wh.Endpoint,
					"event":    topic,
				}).Debug("webhook delivery failed")
				return err
			}
			return nil
		})
	}
	return eg.Wait()
}

func (ws *service) Close() error {
	return ws.store.close()
}

// listWebhooks returns the webhooks of topic along with those subscribed
// to any topic.
func (ws *service) listWebhooks(topic string) webhooks {
	whs := ws.getWebhooks(topic)
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		whs = append(whs, ws.getWebhooks(ports.AnyTopic)...)
	}
	return whs
}

func (ws *service) getWebhooks(topic string) webhooks {
	raw := ws.store.getSerializedWebhooks(topic)
	whs := make(webhooks, 0, len(raw))
	for _, buf := range raw {
		wh, err := parseWebhook(buf)
		if err != nil {
			log.WithError(err).Warn("skipping corrupted webhook")
			continue
		}
		whs = append(whs, *wh)
	}
	sort.SliceStable(whs, func(i, j int) bool {
		return whs[i].CreatedAt < whs[j].CreatedAt ||
			(whs[i].CreatedAt == whs[j].CreatedAt && whs[i].ID < whs[j].ID)
	})
	return whs
}

// deliver notifies a single webhook. Deliveries are rate limited and go
// through the circuit breaker shared by all endpoints.
func (ws *service) deliver(event string, wh webhook, payload string) error {
	ws.limiter.Take()

	_, err := ws.cb.Execute(func() (interface{}, error) {
		return nil, ws.notifier.notify(context.Background(), event, wh, payload)
	})
	return err
}
