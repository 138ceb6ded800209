package azdo

import (
	"context"
	"fmt"
)

const (
	webhookConsumer = "webHooks"
	webhookAction   = "httpRequest"
)

// CreateSubscription registers a service hook that posts events to the
// input's webhook URL.
func (s *Service) CreateSubscription(ctx context.Context, input SubscriptionInput) (*Subscription, error) {
	if input.Organization == "" || input.ProjectID == "" {
		return nil, fmt.Errorf("azdo: organization and project required")
	}
	if input.EventType == "" || input.Publisher == "" {
		return nil, fmt.Errorf("azdo: event type and publisher required")
	}
	if input.WebhookURL == "" {
		return nil, fmt.Errorf("azdo: webhook url required")
	}

	publisherInputs := map[string]string{"projectId": input.ProjectID}
	for k, v := range input.Inputs {
		publisherInputs[k] = v
	}

	body := Subscription{
		PublisherID:      input.Publisher,
		EventType:        input.EventType,
		ConsumerID:       webhookConsumer,
		ConsumerActionID: webhookAction,
		PublisherInputs:  publisherInputs,
		ConsumerInputs:   map[string]string{"url": input.WebhookURL},
	}

	path, err := apiPath(input.Organization, "_apis", "hooks", "subscriptions")
	if err != nil {
		return nil, err
	}

	var created Subscription
	if err := s.client.Post(ctx, path, body, &created); err != nil {
		return nil, err
	}

	return &created, nil
}
