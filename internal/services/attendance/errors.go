package attendance

// ServiceError is a custom error type for attendance-related errors
type ServiceError string

// Error implements the error interface
func (e ServiceError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrAlreadyCheckedIn  ServiceError = "already checked in"
	ErrNotCheckedIn      ServiceError = "not checked in"
	ErrInconsistentState ServiceError = "presence state disagreed with ledger; cleared, check in again"
	ErrNilConfig         ServiceError = "config cannot be nil"
	ErrNilRepo           ServiceError = "attendance repository cannot be nil"
	ErrNilClock          ServiceError = "clock cannot be nil"
	ErrNilMember         ServiceError = "member cannot be nil"
)
