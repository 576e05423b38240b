package escalation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/shopkeep/internal/models"
	attendanceRepo "github.com/KirkDiggler/shopkeep/internal/repositories/attendance"
	memberRepo "github.com/KirkDiggler/shopkeep/internal/repositories/member"
)

// DefaultLookback bounds the co-presence scan: sessions that ended more
// than this long before the checkout are old history, not co-presence.
const DefaultLookback = 24 * time.Hour

// Config holds configuration for the escalation service
type Config struct {
	// AttendanceRepo is the session ledger, read-only here
	AttendanceRepo attendanceRepo.Repository

	// MemberRepo is the member registry
	MemberRepo memberRepo.Repository

	// AdminUserID is the last-resort recipient
	AdminUserID string

	// Lookback bounds the co-presence scan; zero selects DefaultLookback
	Lookback time.Duration
}

// Service defines the interface for escalation resolution
type Service interface {
	// Resolve determines the single recipient to notify for a check-out
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)
}

// service implements the Service interface
type service struct {
	attendanceRepo attendanceRepo.Repository
	memberRepo     memberRepo.Repository
	adminUserID    string
	lookback       time.Duration
}

// New creates a new escalation service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.AttendanceRepo == nil {
		return nil, errors.New("attendance repository cannot be nil")
	}

	if cfg.MemberRepo == nil {
		return nil, errors.New("member repository cannot be nil")
	}

	if cfg.AdminUserID == "" {
		return nil, errors.New("admin user ID cannot be empty")
	}

	lookback := cfg.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	return &service{
		attendanceRepo: cfg.AttendanceRepo,
		memberRepo:     cfg.MemberRepo,
		adminUserID:    cfg.AdminUserID,
		lookback:       lookback,
	}, nil
}

// Resolve walks the priority chain and short-circuits at the first
// non-empty candidate set:
//
//  1. most senior member still present
//  2. most senior member whose session overlapped the departing one
//     within the lookback window
//  3. the departing member's registered lead
//  4. the admin
func (s *service) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if input == nil || input.Departing == nil {
		return nil, errors.New("input and departing member cannot be nil")
	}

	listOutput, err := s.memberRepo.ListMembers(ctx, &memberRepo.ListMembersInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	members := listOutput.Members

	if recipient := s.mostSeniorPresent(input, members); recipient != "" {
		return &ResolveOutput{UserID: recipient}, nil
	}

	recipient, err := s.mostSeniorCoPresent(ctx, input, members)
	if err != nil {
		return nil, err
	}
	if recipient != "" {
		return &ResolveOutput{UserID: recipient}, nil
	}

	if lead := strings.TrimSpace(input.Departing.LeadUserID); lead != "" {
		return &ResolveOutput{UserID: lead}, nil
	}

	return &ResolveOutput{UserID: s.adminUserID}, nil
}

// mostSeniorPresent picks the most senior member still in the shop
func (s *service) mostSeniorPresent(input *ResolveInput, members []*models.Member) string {
	if len(input.Present) == 0 {
		return ""
	}

	present := make(map[string]struct{}, len(input.Present))
	for _, name := range input.Present {
		present[nameKey(name)] = struct{}{}
	}

	var candidates []*models.Member
	for _, m := range members {
		if nameKey(m.Name) == nameKey(input.Departing.Name) {
			continue
		}
		if _, ok := present[nameKey(m.Name)]; ok {
			candidates = append(candidates, m)
		}
	}

	return mostSenior(candidates)
}

// mostSeniorCoPresent scans the ledger for other members whose sessions
// overlapped the departing session within the lookback window. An open
// co-session overlaps if its check-in precedes the departing checkout.
// Rows with unusable timestamps are skipped, never fatal; a departing
// session with an unusable check-in falls straight through to lead/admin.
func (s *service) mostSeniorCoPresent(ctx context.Context, input *ResolveInput, members []*models.Member) (string, error) {
	if input.Session == nil || input.Session.CheckIn.IsZero() {
		return "", nil
	}

	readOutput, err := s.attendanceRepo.ReadSessions(ctx, &attendanceRepo.ReadSessionsInput{})
	if err != nil {
		return "", fmt.Errorf("failed to read ledger: %w", err)
	}

	byName := make(map[string]*models.Member, len(members))
	for _, m := range members {
		byName[nameKey(m.Name)] = m
	}

	sessionStart := input.Session.CheckIn
	windowStart := input.CheckOutTime.Add(-s.lookback)

	seen := make(map[string]struct{})
	var candidates []*models.Member

	for _, row := range readOutput.Sessions {
		if row.BelongsTo(input.Departing.Name) || row.CheckIn.IsZero() {
			continue
		}

		var overlaps bool
		if row.IsOpen() {
			overlaps = row.CheckIn.After(windowStart) && row.CheckIn.Before(input.CheckOutTime)
		} else {
			if row.CheckOut.Before(windowStart) {
				continue
			}
			overlaps = row.CheckIn.Before(input.CheckOutTime) && row.CheckOut.After(sessionStart)
		}
		if !overlaps {
			continue
		}

		m, ok := byName[nameKey(row.MemberName)]
		if !ok {
			continue
		}
		if _, dup := seen[nameKey(m.Name)]; dup {
			continue
		}
		seen[nameKey(m.Name)] = struct{}{}
		candidates = append(candidates, m)
	}

	return mostSenior(candidates), nil
}

// mostSenior returns the user ID of the highest-authority candidate.
// Ties on seniority break lexicographically by name so the result is
// deterministic.
func mostSenior(candidates []*models.Member) string {
	if len(candidates) == 0 {
		return ""
	}

	sorted := make([]*models.Member, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Seniority != sorted[j].Seniority {
			return sorted[i].Seniority < sorted[j].Seniority
		}
		return sorted[i].Name < sorted[j].Name
	})

	return sorted[0].UserID
}

// nameKey maps a member name to its comparison form
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
