package operator

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

func (s *Service) AddWebhook(
	ctx context.Context, event, endpoint, secret string,
) (string, error) {
	return s.pubsub.AddWebhook(ctx, event, endpoint, secret)
}

func (s *Service) RemoveWebhook(ctx context.Context, id string) error {
	return s.pubsub.RemoveWebhook(ctx, id)
}

func (s *Service) ListWebhooks(
	ctx context.Context, event string,
) ([]ports.WebhookInfo, error) {
	subs, err := s.pubsub.ListWebhooks(ctx, event)
	if err != nil {
		return nil, err
	}
	return webhookList(subs).toPortableList(), nil
}

type webhookInfo struct {
	ports.Subscription
}

func (i webhookInfo) GetId() string {
	return i.Subscription.Id()
}
func (i webhookInfo) GetEvent() string {
	return i.Subscription.Topic()
}
func (i webhookInfo) GetEndpoint() string {
	return i.Subscription.NotifyAt()
}

func (i webhookInfo) IsSecured() bool {
	return i.Subscription.IsSecured()
}

type webhookList []ports.Subscription

func (l webhookList) toPortableList() []ports.WebhookInfo {
	list := make([]ports.WebhookInfo, 0, len(l))
	for _, s := range l {
		list = append(list, webhookInfo{s})
	}
	return list
}
