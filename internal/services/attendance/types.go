package attendance

import (
	"time"

	"github.com/KirkDiggler/shopkeep/internal/models"
)

// CheckInInput contains parameters for checking a member in
type CheckInInput struct {
	// Member is the registry record of the member checking in
	Member *models.Member
}

// CheckInOutput contains the result of a check-in
type CheckInOutput struct {
	// CheckInTime is the timestamp recorded on the new session
	CheckInTime time.Time

	// ShopWasEmpty indicates the shop transitioned from empty to occupied,
	// which callers use to trigger an "open" announcement
	ShopWasEmpty bool

	// PresentCount is the number of members present after the check-in
	PresentCount int
}

// CheckOutInput contains parameters for checking a member out
type CheckOutInput struct {
	// Member is the registry record of the member checking out
	Member *models.Member
}

// CheckOutOutput contains the result of a check-out
type CheckOutOutput struct {
	// CheckOutTime is the timestamp recorded on the closed session
	CheckOutTime time.Time

	// Hours is the session duration in hours, rounded to two decimals
	Hours float64

	// Session is a copy of the closed session
	Session *models.Session

	// ShopNowEmpty indicates this was the last person out
	ShopNowEmpty bool

	// Remaining holds the names of everyone still present, sorted
	Remaining []string
}

// StaleSession describes an open session excluded from live presence
// because it exceeded the staleness threshold at reconciliation time
type StaleSession struct {
	// MemberName is the member the session belongs to
	MemberName string

	// CheckIn is when the session was opened
	CheckIn time.Time

	// Age is how old the session was at reconciliation time
	Age time.Duration
}

// ReconcileInput contains parameters for rebuilding the presence set
type ReconcileInput struct{}

// ReconcileOutput contains the result of a reconciliation
type ReconcileOutput struct {
	// Recovered holds the names of members restored to the presence set,
	// sorted
	Recovered []string

	// Stale holds open sessions flagged for manual resolution, ordered by
	// member name
	Stale []*StaleSession
}

// CurrentMembersInput contains parameters for listing present members
type CurrentMembersInput struct{}

// CurrentMembersOutput contains the names of present members, sorted
type CurrentMembersOutput struct {
	Names []string
}
