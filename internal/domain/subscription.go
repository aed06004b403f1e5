package domain

//go:generate mockgen -destination mocks/mock_subscription_repository.go -package mocks github.com/hookline/hookline/internal/domain SubscriptionRepository
//go:generate mockgen -destination mocks/mock_subscription_cache.go -package mocks github.com/hookline/hookline/internal/domain SubscriptionCache

import (
	"context"
	"net/url"
	"time"
)

// Subscription represents a registered webhook destination. SecretKey is
// optional; when set it authenticates ingestion and signs outbound requests.
type Subscription struct {
	ID        string    `json:"id"`
	TargetURL string    `json:"target_url"`
	SecretKey string    `json:"secret_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that the subscription can receive deliveries.
func (s *Subscription) Validate() error {
	if s.TargetURL == "" {
		return NewValidationError("target_url is required")
	}
	u, err := url.Parse(s.TargetURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return NewValidationError("target_url must be an absolute http(s) URL")
	}
	if u.Host == "" {
		return NewValidationError("target_url must have a host")
	}
	return nil
}

// SubscriptionUpdate carries the mutable fields of a subscription. A nil
// field keeps the current value; an explicit empty SecretKey removes the
// secret.
type SubscriptionUpdate struct {
	TargetURL *string `json:"target_url,omitempty"`
	SecretKey *string `json:"secret_key,omitempty"`
}

// SubscriptionRepository defines data access for subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context, limit, offset int) ([]*Subscription, int, error)
	Update(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	ListRecent(ctx context.Context, limit int) ([]*Subscription, error)
}

// SubscriptionCache shields the delivery hot path from subscription reads.
// The cache is best-effort: implementations never return errors, they
// degrade to a miss or a no-op when the backing store is unavailable.
type SubscriptionCache interface {
	Get(ctx context.Context, id string) (*Subscription, bool)
	Set(ctx context.Context, sub *Subscription)
	Delete(ctx context.Context, id string)
}
