package snapshot

import (
	"context"
	"strconv"

	"github.com/cooperative-society-ledger/internal/domain/shared"
)

// Repository persists the society state write-through. Save stores the
// document and the events of the mutation that produced it as one unit.
type Repository interface {
	// Load returns nil and no error when nothing has been saved yet
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document, events []shared.Event) error
}

// ErrStaleSnapshot indicates a save that would overwrite a newer state
type ErrStaleSnapshot struct {
	StateVersion uint64
}

func (e ErrStaleSnapshot) Error() string {
	return "snapshot is stale at state version " + strconv.FormatUint(e.StateVersion, 10)
}

// Is implements the errors.Is interface for ErrStaleSnapshot
func (e ErrStaleSnapshot) Is(target error) bool {
	_, ok := target.(ErrStaleSnapshot)
	return ok
}
