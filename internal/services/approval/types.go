package approval

import "github.com/KirkDiggler/shopkeep/internal/models"

// IsAuthorizedInput contains parameters for an authorization check
type IsAuthorizedInput struct {
	// ApproverUserID is the chat handle of the prospective approver
	ApproverUserID string

	// TargetName is the member whose sessions would be acted on
	TargetName string
}

// IsAuthorizedOutput contains the result of an authorization check
type IsAuthorizedOutput struct {
	Authorized bool
}

// PendingSession pairs a pending session with its display number
type PendingSession struct {
	// Number is the 1-based position in the member's pending list
	Number int

	// Session is a copy of the pending session
	Session *models.Session
}

// ListPendingInput contains parameters for listing pending sessions
type ListPendingInput struct {
	TargetName string
}

// ListPendingOutput contains the numbered pending sessions
type ListPendingOutput struct {
	Sessions []*PendingSession
}

// ApproveInput contains parameters for approving one session
type ApproveInput struct {
	ApproverUserID string
	TargetName     string

	// Number is the 1-based position in the freshly derived pending list
	Number int
}

// ApproveOutput contains the approved session
type ApproveOutput struct {
	Session *models.Session
}

// DisapproveInput contains parameters for removing one session
type DisapproveInput struct {
	ApproverUserID string
	TargetName     string
	Number         int
}

// DisapproveOutput contains the removed session
type DisapproveOutput struct {
	Session *models.Session
}

// ApproveAllInput contains parameters for approving all pending sessions
type ApproveAllInput struct {
	ApproverUserID string
	TargetName     string
}

// ApproveAllOutput contains the number of sessions changed
type ApproveAllOutput struct {
	Count int
}
