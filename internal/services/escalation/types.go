package escalation

import (
	"time"

	"github.com/KirkDiggler/shopkeep/internal/models"
)

// ResolveInput contains parameters for picking a notification recipient
// after a check-out
type ResolveInput struct {
	// Session is the departing member's just-closed session
	Session *models.Session

	// CheckOutTime is when the member checked out
	CheckOutTime time.Time

	// Departing is the registry record of the member who checked out
	Departing *models.Member

	// Present holds the names of members still in the shop after the
	// departure
	Present []string
}

// ResolveOutput contains the single chosen recipient
type ResolveOutput struct {
	// UserID is the chat handle to notify
	UserID string
}
