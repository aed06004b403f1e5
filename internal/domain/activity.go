package domain

import "time"

// SystemStats aggregates dashboard counters. Recent counts cover the last
// 24 hours.
type SystemStats struct {
	TotalSubscriptions int `json:"total_subscriptions"`
	RecentSuccessCount int `json:"recent_success_count"`
	RecentFailedCount  int `json:"recent_failed_count"`
}

// Activity feed item types
const (
	ActivityTypeSubscriptionCreated = "subscription_created"
	ActivityTypeDeliveryAttempt     = "delivery_attempt"
)

// ActivityItem is one entry in the recent activity feed.
type ActivityItem struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// DeliveryStatusReport is the per-delivery status view: the delivery row
// plus its full attempt history.
type DeliveryStatusReport struct {
	Delivery *WebhookDelivery   `json:"delivery"`
	Attempts []*DeliveryAttempt `json:"attempts"`
}
