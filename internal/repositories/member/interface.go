package member

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/shopkeep/internal/repositories/member Repository

import (
	"context"
	"errors"
)

// ErrMemberNotFound is returned when no member matches the lookup
var ErrMemberNotFound = errors.New("member not found")

// Repository defines the interface for the member registry. The registry is
// owned externally and edited by hand, so implementations re-read it on
// every call rather than caching.
type Repository interface {
	// GetMemberByUserID retrieves a member by chat handle
	GetMemberByUserID(ctx context.Context, input *GetMemberByUserIDInput) (*GetMemberByUserIDOutput, error)

	// GetMemberByCard retrieves a member by normalized card UID
	GetMemberByCard(ctx context.Context, input *GetMemberByCardInput) (*GetMemberByCardOutput, error)

	// ListMembers retrieves all registered members
	ListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error)
}
