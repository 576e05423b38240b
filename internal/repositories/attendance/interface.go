package attendance

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/shopkeep/internal/repositories/attendance Repository

import (
	"context"
)

// Repository defines the interface for the attendance session ledger. The
// ledger is an ordered sequence of sessions; insertion order is preserved
// by every operation and is significant to callers.
//
// Implementations must guarantee that a failed write is never observable:
// a subsequent ReadSessions reflects either the previous contents or the
// full new contents, never a partial write.
type Repository interface {
	// ReadSessions returns the full ordered session sequence
	ReadSessions(ctx context.Context, input *ReadSessionsInput) (*ReadSessionsOutput, error)

	// WriteSessions replaces the entire stored sequence in one durable operation
	WriteSessions(ctx context.Context, input *WriteSessionsInput) error

	// AppendSession adds a session to the end of the sequence, preserving
	// the same atomicity guarantee as WriteSessions
	AppendSession(ctx context.Context, input *AppendSessionInput) error

	// UpdateSessions runs a read-modify-write as a single serialized
	// operation. The transform receives the current sequence and returns
	// the replacement; a transform error writes nothing and is returned
	// unchanged. This is the mutual-exclusion point for all callers that
	// read the whole sequence before rewriting it.
	UpdateSessions(ctx context.Context, input *UpdateSessionsInput) (*UpdateSessionsOutput, error)
}
