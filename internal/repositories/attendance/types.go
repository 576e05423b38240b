package attendance

import "github.com/KirkDiggler/shopkeep/internal/models"

// ReadSessionsInput contains parameters for reading the session sequence
type ReadSessionsInput struct{}

// ReadSessionsOutput contains the full ordered session sequence
type ReadSessionsOutput struct {
	Sessions []*models.Session
}

// WriteSessionsInput contains the replacement session sequence
type WriteSessionsInput struct {
	Sessions []*models.Session
}

// AppendSessionInput contains the session to append
type AppendSessionInput struct {
	Session *models.Session
}

// UpdateFunc transforms the current session sequence into its replacement.
// Returning an error aborts the update without writing.
type UpdateFunc func(sessions []*models.Session) ([]*models.Session, error)

// UpdateSessionsInput contains the transform for a read-modify-write
type UpdateSessionsInput struct {
	Update UpdateFunc
}

// UpdateSessionsOutput contains the sequence as written
type UpdateSessionsOutput struct {
	Sessions []*models.Session
}
