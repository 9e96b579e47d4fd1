package pubsub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	eventHeader  = "X-Escrow-Event"
	maxReplySize = 512
)

// notifier posts event payloads to webhook endpoints.
type notifier struct {
	client *http.Client
}

func newNotifier(requestTimeout time.Duration) *notifier {
	return &notifier{&http.Client{Timeout: requestTimeout}}
}

// notify delivers payload for event to the endpoint of wh. Any reply other
// than 2xx is a failed delivery.
func (n *notifier) notify(
	ctx context.Context, event string, wh webhook, payload string,
) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, wh.Endpoint, strings.NewReader(payload),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(eventHeader, event)

	if wh.IsSecured() {
		token, err := wh.authToken(event, time.Now())
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reply, _ := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
		return fmt.Errorf(
			"endpoint replied with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(reply)),
		)
	}
	//nolint
	io.Copy(io.Discard, resp.Body)
	return nil
}
