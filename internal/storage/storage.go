package storage

import (
	"context"

	"liquidityLayer/internal/model"
)

// Sink receives decoded events and the logs that failed to decode.
type Sink interface {
	PutEvents(ctx context.Context, events []model.TypedEvent) error
	PutDecodeErrors(ctx context.Context, failures []model.DecodeError) error
	Close() error
}
