package pubsub

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

const tokenExpiration = time.Minute

// webhook is the persisted form of a subscription. It satisfies
// ports.Subscription.
type webhook struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	Secret    string `json:"secret,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type webhooks []webhook

func (ws webhooks) toPortable() []ports.Subscription {
	subs := make([]ports.Subscription, 0, len(ws))
	for i := range ws {
		wh := ws[i]
		subs = append(subs, &wh)
	}
	return subs
}

// newWebhook validates the endpoint, which must be an absolute http(s) url,
// and assigns a random id to the new webhook.
func newWebhook(event, endpoint, secret string) (*webhook, error) {
	if len(event) <= 0 {
		return nil, fmt.Errorf("missing event")
	}
	u, err := url.ParseRequestURI(endpoint)
	if err != nil || len(u.Host) <= 0 {
		return nil, ports.ErrInvalidEndpoint
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ports.ErrInvalidEndpoint
	}
	return &webhook{
		ID:        uuid.New().String(),
		Event:     event,
		Endpoint:  endpoint,
		Secret:    secret,
		CreatedAt: time.Now().Unix(),
	}, nil
}

func parseWebhook(buf []byte) (*webhook, error) {
	wh := &webhook{}
	if err := json.Unmarshal(buf, wh); err != nil {
		return nil, err
	}
	if len(wh.ID) <= 0 {
		return nil, fmt.Errorf("webhook without id")
	}
	return wh, nil
}

func (w *webhook) marshal() []byte {
	//nolint
	buf, _ := json.Marshal(w)
	return buf
}

// authToken returns a HS256 token signed with the webhook secret, bound to
// the webhook id and to the notified event.
func (w *webhook) authToken(event string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Id:        w.ID,
		Subject:   event,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(tokenExpiration).Unix(),
	})
	return token.SignedString([]byte(w.Secret))
}

func (w *webhook) Topic() string {
	return w.Event
}

func (w *webhook) Id() string {
	return w.ID
}

func (w *webhook) NotifyAt() string {
	return w.Endpoint
}

func (w *webhook) IsSecured() bool {
	return len(w.Secret) > 0
}
