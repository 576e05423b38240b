package member

import "github.com/KirkDiggler/shopkeep/internal/models"

// GetMemberByUserIDInput contains parameters for a chat-handle lookup
type GetMemberByUserIDInput struct {
	UserID string
}

// GetMemberByUserIDOutput contains the matched member
type GetMemberByUserIDOutput struct {
	Member *models.Member
}

// GetMemberByCardInput contains parameters for a card lookup
type GetMemberByCardInput struct {
	CardUID string
}

// GetMemberByCardOutput contains the matched member
type GetMemberByCardOutput struct {
	Member *models.Member
}

// ListMembersInput contains parameters for listing all members
type ListMembersInput struct{}

// ListMembersOutput contains all registered members
type ListMembersOutput struct {
	Members []*models.Member
}
