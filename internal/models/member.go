package models

const (
	// MostSeniorRank is the lowest (most senior) seniority ordinal.
	MostSeniorRank = 1

	// LeastSeniorRank is the highest (most junior) seniority ordinal.
	// Members with a missing or unparseable seniority default here,
	// the safest assumption for new members.
	LeastSeniorRank = 5
)

// Member is an identity record owned by the external registry. The core
// treats it as read-only and reloads it per command.
type Member struct {
	// CardUID is the identifier yielded by the card reader, normalized
	// to uppercase with surrounding whitespace trimmed
	CardUID string

	// Name is the member's display name
	Name string

	// UserID is the member's chat handle (Discord user ID)
	UserID string

	// Seniority is the member's rank; lower = more senior
	Seniority int

	// LeadUserID is the chat handle of the member's designated lead,
	// empty if none is registered
	LeadUserID string
}
