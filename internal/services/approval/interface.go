package approval

import "context"

// Service defines the interface for session approval. Every mutating
// operation checks authority before touching the ledger and applies its
// whole change in a single write.
type Service interface {
	// IsAuthorized reports whether the approver may act on the target's
	// sessions: strictly more senior, or the target's registered lead
	IsAuthorized(ctx context.Context, input *IsAuthorizedInput) (*IsAuthorizedOutput, error)

	// ListPending returns the target's pending sessions in ledger order,
	// numbered 1..N for human reference. Numbering is not stable across
	// concurrent mutation; mutating operations re-derive it.
	ListPending(ctx context.Context, input *ListPendingInput) (*ListPendingOutput, error)

	// Approve marks the numbered pending session approved
	Approve(ctx context.Context, input *ApproveInput) (*ApproveOutput, error)

	// Disapprove removes the numbered pending session from the ledger
	Disapprove(ctx context.Context, input *DisapproveInput) (*DisapproveOutput, error)

	// ApproveAll marks every pending session for the target approved and
	// returns how many changed
	ApproveAll(ctx context.Context, input *ApproveAllInput) (*ApproveAllOutput, error)
}
