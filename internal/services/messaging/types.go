package messaging

// AnnouncementMode selects the register of shop-open announcements
type AnnouncementMode string

const (
	// ModeCasual picks a random line from the shop-open pool
	ModeCasual AnnouncementMode = "casual"

	// ModeFormal pins announcements to the fixed formal sentence
	ModeFormal AnnouncementMode = "formal"
)

// ShopOpenMessageInput contains parameters for a shop-open announcement
type ShopOpenMessageInput struct {
	// MemberName is the member whose check-in opened the shop
	MemberName string
}

// ShopOpenMessageOutput contains the announcement text
type ShopOpenMessageOutput struct {
	Message string
}

// ShopClosedMessageInput contains parameters for a shop-closed announcement
type ShopClosedMessageInput struct {
	// MemberName is the last member out
	MemberName string
}

// ShopClosedMessageOutput contains the announcement text
type ShopClosedMessageOutput struct {
	Message string
}

// SetAnnouncementModeInput contains the mode to switch to
type SetAnnouncementModeInput struct {
	Mode AnnouncementMode
}

// SetAnnouncementModeOutput confirms the active mode
type SetAnnouncementModeOutput struct {
	Mode AnnouncementMode
}
