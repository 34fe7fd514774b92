// Package worker provides background ingestion of braking telemetry published
// by vehicle fleets over Pub/Sub.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/events"
)

// Ingestor consumes braking telemetry messages and writes them to the event
// store.
type Ingestor struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	events           *events.Service
	logger           zerolog.Logger
}

// IngestorConfig holds configuration for the ingestor.
type IngestorConfig struct {
	ProjectID        string
	SubscriptionName string
	EventService     *events.Service
	Logger           zerolog.Logger
}

// BrakingMessage is the published telemetry payload.
type BrakingMessage struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// NewIngestor creates a new braking telemetry ingestor.
func NewIngestor(ctx context.Context, cfg IngestorConfig) (*Ingestor, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &Ingestor{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		events:           cfg.EventService,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing messages. Blocks until the context is cancelled.
func (i *Ingestor) Start(ctx context.Context) error {
	i.logger.Info().
		Str("subscription", i.subscriptionName).
		Msg("starting braking telemetry ingestor")

	return i.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		i.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (i *Ingestor) Close() error {
	return i.client.Close()
}

func (i *Ingestor) handleMessage(ctx context.Context, msg *pubsub.Message) {
	logger := i.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	var braking BrakingMessage
	if err := json.Unmarshal(msg.Data, &braking); err != nil {
		// Malformed payloads never become valid; ack so they are not redelivered.
		logger.Error().Err(err).Msg("failed to parse braking message")
		msg.Ack()
		return
	}

	if braking.Latitude == nil || braking.Longitude == nil {
		logger.Error().Msg("braking message missing coordinates")
		msg.Ack()
		return
	}

	event, err := i.events.RecordBraking(ctx, *braking.Latitude, *braking.Longitude)
	if err != nil {
		logger.Error().Err(err).Msg("failed to store braking event")
		msg.Nack()
		return
	}

	logger.Debug().
		Str("event_id", event.ID).
		Msg("braking event ingested")
	msg.Ack()
}
