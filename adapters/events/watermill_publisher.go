package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

const (
	TopicIdentityCreated     = "walletauth.identity.created"
	TopicTransactionRecorded = "walletauth.transaction.recorded"
)

// IdentityCreatedEvent is published after a successful signup
type IdentityCreatedEvent struct {
	UserID        string    `json:"userId"`
	WalletAddress string    `json:"walletAddress"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TransactionRecordedEvent is published after a ledger row is stored
type TransactionRecordedEvent struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	ChainSignature string    `json:"chainSignature"`
	Kind           string    `json:"kind"`
	Amount         string    `json:"amount"`
	Recipient      string    `json:"recipient"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishIdentityCreated publishes a signup event
func (p *WatermillPublisher) PublishIdentityCreated(ctx context.Context, identity *core.Identity) error {
	return p.publish(ctx, TopicIdentityCreated, IdentityCreatedEvent{
		UserID:        identity.ID.String(),
		WalletAddress: identity.WalletAddress,
		CreatedAt:     identity.CreatedAt,
	})
}

// PublishTransactionRecorded publishes a ledger event
func (p *WatermillPublisher) PublishTransactionRecorded(ctx context.Context, rec *core.TransactionRecord) error {
	return p.publish(ctx, TopicTransactionRecorded, TransactionRecordedEvent{
		ID:             rec.ID.String(),
		UserID:         rec.OwnerID.String(),
		ChainSignature: rec.ChainSignature,
		Kind:           string(rec.Kind),
		Amount:         rec.Amount.String(),
		Recipient:      rec.Recipient,
		Status:         string(rec.Status),
		CreatedAt:      rec.CreatedAt,
	})
}

func (p *WatermillPublisher) publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) PublishIdentityCreated(context.Context, *core.Identity) error { return nil }

func (NopPublisher) PublishTransactionRecorded(context.Context, *core.TransactionRecord) error {
	return nil
}
