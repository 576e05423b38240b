package attendance

import "context"

// Service defines the interface for the session engine. All mutations are
// serialized through a single internal mutex: every operation is a
// read-entire-ledger-then-write operation, and the live presence set must
// move in lockstep with it.
type Service interface {
	// CheckIn opens a session for the member and marks them present
	CheckIn(ctx context.Context, input *CheckInInput) (*CheckInOutput, error)

	// CheckOut closes the member's most recent open session, computes the
	// worked hours, and removes them from the presence set
	CheckOut(ctx context.Context, input *CheckOutInput) (*CheckOutOutput, error)

	// Reconcile rebuilds the live presence set from the ledger. Called at
	// startup before any command is served; open sessions older than the
	// staleness threshold are reported but left in the ledger untouched.
	Reconcile(ctx context.Context, input *ReconcileInput) (*ReconcileOutput, error)

	// CurrentMembers returns the names of everyone currently present
	CurrentMembers(ctx context.Context, input *CurrentMembersInput) (*CurrentMembersOutput, error)
}
