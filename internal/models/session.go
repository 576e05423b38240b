package models

import (
	"strings"
	"time"
)

// ApprovalState represents whether a session's hours have been approved
type ApprovalState string

const (
	// ApprovalPending indicates a session awaiting approval. A missing or
	// empty approval value in the ledger is treated identically.
	ApprovalPending ApprovalState = "pending"

	// ApprovalApproved indicates a session whose hours have been approved
	ApprovalApproved ApprovalState = "approved"
)

// Session is one continuous presence interval for a member, from check-in
// to check-out. A session with a zero CheckOut is open. Ledger order is
// insertion order and is significant: "most recent open session" means the
// last matching row.
type Session struct {
	// CardUID is the card identifier the session was opened with
	CardUID string

	// MemberName is the member's display name at check-in time
	MemberName string

	// CheckIn is when the member checked in
	CheckIn time.Time

	// CheckOut is when the member checked out; zero while the session is open
	CheckOut time.Time

	// Hours is the elapsed duration in hours, rounded to two decimals,
	// computed at check-out
	Hours float64

	// Approved is the session's approval state
	Approved ApprovalState
}

// IsOpen reports whether the session has no recorded check-out
func (s *Session) IsOpen() bool {
	return s.CheckOut.IsZero()
}

// IsPending reports whether the session still awaits approval
func (s *Session) IsPending() bool {
	return s.Approved != ApprovalApproved
}

// BelongsTo reports whether the session belongs to the named member,
// compared case-insensitively with surrounding whitespace ignored
func (s *Session) BelongsTo(memberName string) bool {
	return strings.EqualFold(strings.TrimSpace(s.MemberName), strings.TrimSpace(memberName))
}

// Clone returns a copy of the session so callers can hand rows out
// without exposing ledger-owned state
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
