package approval

// ServiceError is a custom error type for approval-related errors
type ServiceError string

// Error implements the error interface
func (e ServiceError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrUnauthorized ServiceError = "not authorized for that member"
	ErrInvalidIndex ServiceError = "session number out of range"
	ErrNilConfig    ServiceError = "config cannot be nil"
	ErrNilRepo      ServiceError = "attendance repository cannot be nil"
	ErrNilMembers   ServiceError = "member repository cannot be nil"
)
