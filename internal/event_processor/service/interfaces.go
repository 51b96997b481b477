package service

import (
	"context"

	"github.com/cooperative-society-ledger/internal/domain/shared"
)

// ArchiveService records consumed domain events in the event history
type ArchiveService interface {
	Archive(ctx context.Context, event *shared.Event) error
}
