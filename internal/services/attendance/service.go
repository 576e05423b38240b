package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/shopkeep/internal/common/clock"
	"github.com/KirkDiggler/shopkeep/internal/models"
	attendanceRepo "github.com/KirkDiggler/shopkeep/internal/repositories/attendance"
)

// DefaultStaleAfter is the staleness threshold applied when the config
// leaves it unset: an open session older than this at reconciliation time
// is flagged instead of restored to the presence set.
const DefaultStaleAfter = 12 * time.Hour

// errNoOpenSession signals inside a checkout transform that neither lookup
// found an open session; it never escapes the service
var errNoOpenSession = errors.New("no open session")

// Config holds configuration for the attendance service
type Config struct {
	// Repo is the session ledger
	Repo attendanceRepo.Repository

	// Clock is the time source
	Clock clock.Clock

	// StaleAfter is the staleness threshold for reconciliation; zero
	// selects DefaultStaleAfter
	StaleAfter time.Duration
}

// service implements the Service interface
type service struct {
	repo       attendanceRepo.Repository
	clock      clock.Clock
	staleAfter time.Duration

	// mu serializes every engine mutation: the presence set is derived
	// from the ledger and must only change together with it
	mu sync.Mutex

	// present maps lowercased member name to display name
	present map[string]string
}

// New creates a new attendance service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repo == nil {
		return nil, ErrNilRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	return &service{
		repo:       cfg.Repo,
		clock:      cfg.Clock,
		staleAfter: staleAfter,
		present:    make(map[string]string),
	}, nil
}

// CheckIn opens a session for the member and marks them present. The
// ledger and the presence set are checked independently: either an open
// session or live presence blocks the action, because the two can diverge
// after a crash.
func (s *service) CheckIn(ctx context.Context, input *CheckInInput) (*CheckInOutput, error) {
	if input == nil || input.Member == nil {
		return nil, ErrNilMember
	}

	member := input.Member

	s.mu.Lock()
	defer s.mu.Unlock()

	readOutput, err := s.repo.ReadSessions(ctx, &attendanceRepo.ReadSessionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	_, live := s.present[presenceKey(member.Name)]
	if live || findOpenByCard(readOutput.Sessions, member.CardUID) != nil {
		return nil, ErrAlreadyCheckedIn
	}

	wasEmpty := len(s.present) == 0
	now := s.clock.Now()

	err = s.repo.AppendSession(ctx, &attendanceRepo.AppendSessionInput{
		Session: &models.Session{
			CardUID:    member.CardUID,
			MemberName: member.Name,
			CheckIn:    now,
			Approved:   models.ApprovalPending,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	s.present[presenceKey(member.Name)] = member.Name

	return &CheckInOutput{
		CheckInTime:  now,
		ShopWasEmpty: wasEmpty,
		PresentCount: len(s.present),
	}, nil
}

// CheckOut closes the member's most recent open session. The lookup is by
// card UID first, falling back to member name, since the registry can
// drift between sessions. The presence set is only mutated after the
// ledger write succeeds, so a failed write leaves both sides untouched.
func (s *service) CheckOut(ctx context.Context, input *CheckOutInput) (*CheckOutOutput, error) {
	if input == nil || input.Member == nil {
		return nil, ErrNilMember
	}

	member := input.Member

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	var closed *models.Session
	_, err := s.repo.UpdateSessions(ctx, &attendanceRepo.UpdateSessionsInput{
		Update: func(sessions []*models.Session) ([]*models.Session, error) {
			target := findOpenByCard(sessions, member.CardUID)
			if target == nil {
				target = findOpenByName(sessions, member.Name)
			}
			if target == nil {
				return nil, errNoOpenSession
			}

			target.CheckOut = now
			target.Hours = roundHours(now.Sub(target.CheckIn))
			target.Approved = models.ApprovalPending
			closed = target.Clone()
			return sessions, nil
		},
	})

	if errors.Is(err, errNoOpenSession) {
		if _, live := s.present[presenceKey(member.Name)]; live {
			// The set says present but the ledger has no open session.
			// Self-heal by clearing the live state.
			delete(s.present, presenceKey(member.Name))
			return nil, ErrInconsistentState
		}
		return nil, ErrNotCheckedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record check-out: %w", err)
	}

	delete(s.present, presenceKey(member.Name))

	return &CheckOutOutput{
		CheckOutTime: now,
		Hours:        closed.Hours,
		Session:      closed,
		ShopNowEmpty: len(s.present) == 0,
		Remaining:    s.presentNamesLocked(),
	}, nil
}

// Reconcile rebuilds the presence set from the ledger. Each member's most
// recent open session wins; duplicates left by direct ledger edits are
// ignored. Stale sessions are reported and stay open in the ledger for
// manual resolution.
func (s *service) Reconcile(ctx context.Context, input *ReconcileInput) (*ReconcileOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	readOutput, err := s.repo.ReadSessions(ctx, &attendanceRepo.ReadSessionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	// Last open session per member, in insertion order
	latest := make(map[string]*models.Session)
	for _, session := range readOutput.Sessions {
		if session.IsOpen() {
			latest[presenceKey(session.MemberName)] = session
		}
	}

	now := s.clock.Now()
	present := make(map[string]string, len(latest))
	recovered := make([]string, 0, len(latest))
	stale := make([]*StaleSession, 0)

	for key, session := range latest {
		age := now.Sub(session.CheckIn)
		if age > s.staleAfter {
			stale = append(stale, &StaleSession{
				MemberName: session.MemberName,
				CheckIn:    session.CheckIn,
				Age:        age,
			})
			continue
		}

		present[key] = session.MemberName
		recovered = append(recovered, session.MemberName)
	}

	s.present = present

	sort.Strings(recovered)
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].MemberName < stale[j].MemberName
	})

	return &ReconcileOutput{
		Recovered: recovered,
		Stale:     stale,
	}, nil
}

// CurrentMembers returns the names of everyone currently present
func (s *service) CurrentMembers(ctx context.Context, input *CurrentMembersInput) (*CurrentMembersOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &CurrentMembersOutput{Names: s.presentNamesLocked()}, nil
}

// presentNamesLocked returns a sorted snapshot of the presence set.
// Caller holds s.mu.
func (s *service) presentNamesLocked() []string {
	names := make([]string, 0, len(s.present))
	for _, name := range s.present {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// presenceKey maps a member name to its presence-set key
func presenceKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// findOpenByCard returns the most recent open session for the card, which
// is the last matching row by insertion order
func findOpenByCard(sessions []*models.Session, cardUID string) *models.Session {
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].IsOpen() && sessions[i].CardUID == cardUID {
			return sessions[i]
		}
	}
	return nil
}

// findOpenByName returns the most recent open session for the member name
func findOpenByName(sessions []*models.Session, name string) *models.Session {
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].IsOpen() && sessions[i].BelongsTo(name) {
			return sessions[i]
		}
	}
	return nil
}

// roundHours converts an elapsed duration to hours rounded to two
// decimals, half away from zero
func roundHours(elapsed time.Duration) float64 {
	return math.Round(elapsed.Seconds()/3600*100) / 100
}
