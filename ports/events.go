package ports

import (
	"context"

	"github.com/layer-3/walletauth/core"
)

// EventPublisher announces state changes to other services
type EventPublisher interface {
	PublishIdentityCreated(ctx context.Context, identity *core.Identity) error
	PublishTransactionRecorded(ctx context.Context, record *core.TransactionRecord) error
}
