package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ceylontrails/ceylontrails-api/pkg/logger"
	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher is used when NATS is not configured (and in tests).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

// Subjects. Package mutation events drive the hosting layer's content
// revalidation hook; inquiry events drive the notification consumer.
const (
	PackageCreated = "package.created"
	PackageUpdated = "package.updated"
	PackageDeleted = "package.deleted"

	InquiryCreated       = "inquiry.created"
	InquiryStatusUpdated = "inquiry.status.updated"
)

type PackageEvent struct {
	PackageID  string    `json:"package_id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

type InquiryCreatedEvent struct {
	InquiryID  string    `json:"inquiry_id"`
	PackageID  string    `json:"package_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	TravelDate string    `json:"travel_date"`
	People     int       `json:"people"`
	CreatedAt  time.Time `json:"created_at"`
}

type InquiryStatusUpdatedEvent struct {
	InquiryIDs []string  `json:"inquiry_ids"`
	Status     string    `json:"status"`
	Modified   int64     `json:"modified"`
	UpdatedAt  time.Time `json:"updated_at"`
}
