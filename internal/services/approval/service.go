package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/shopkeep/internal/models"
	attendanceRepo "github.com/KirkDiggler/shopkeep/internal/repositories/attendance"
	memberRepo "github.com/KirkDiggler/shopkeep/internal/repositories/member"
)

// errNothingToApprove signals inside an approve-all transform that no
// session changed, so the write is skipped; it never escapes the service
var errNothingToApprove = errors.New("nothing to approve")

// Config holds configuration for the approval service
type Config struct {
	// AttendanceRepo is the session ledger
	AttendanceRepo attendanceRepo.Repository

	// MemberRepo is the member registry
	MemberRepo memberRepo.Repository
}

// service implements the Service interface
type service struct {
	attendanceRepo attendanceRepo.Repository
	memberRepo     memberRepo.Repository
}

// New creates a new approval service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.AttendanceRepo == nil {
		return nil, ErrNilRepo
	}

	if cfg.MemberRepo == nil {
		return nil, ErrNilMembers
	}

	return &service{
		attendanceRepo: cfg.AttendanceRepo,
		memberRepo:     cfg.MemberRepo,
	}, nil
}

// IsAuthorized reports whether the approver may act on the target's
// sessions. Unknown approver or unknown target is false, not an error.
func (s *service) IsAuthorized(ctx context.Context, input *IsAuthorizedInput) (*IsAuthorizedOutput, error) {
	if input == nil || input.ApproverUserID == "" || input.TargetName == "" {
		return nil, errors.New("input, approver and target cannot be empty")
	}

	authorized, err := s.authorized(ctx, input.ApproverUserID, input.TargetName)
	if err != nil {
		return nil, err
	}

	return &IsAuthorizedOutput{Authorized: authorized}, nil
}

// ListPending returns the target's pending sessions, open ones included,
// numbered in ledger order
func (s *service) ListPending(ctx context.Context, input *ListPendingInput) (*ListPendingOutput, error) {
	if input == nil || input.TargetName == "" {
		return nil, errors.New("input and target cannot be empty")
	}

	readOutput, err := s.attendanceRepo.ReadSessions(ctx, &attendanceRepo.ReadSessionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var pending []*PendingSession
	for _, session := range readOutput.Sessions {
		if session.BelongsTo(input.TargetName) && session.IsPending() {
			pending = append(pending, &PendingSession{
				Number:  len(pending) + 1,
				Session: session.Clone(),
			})
		}
	}

	return &ListPendingOutput{Sessions: pending}, nil
}

// Approve marks the numbered pending session approved. The pending list
// is re-derived inside the ledger's read-modify-write, so the number maps
// to the row as it exists at write time.
func (s *service) Approve(ctx context.Context, input *ApproveInput) (*ApproveOutput, error) {
	if input == nil || input.TargetName == "" {
		return nil, errors.New("input and target cannot be empty")
	}

	if err := s.requireAuthority(ctx, input.ApproverUserID, input.TargetName); err != nil {
		return nil, err
	}

	var approved *models.Session
	_, err := s.attendanceRepo.UpdateSessions(ctx, &attendanceRepo.UpdateSessionsInput{
		Update: func(sessions []*models.Session) ([]*models.Session, error) {
			idx, err := pendingPosition(sessions, input.TargetName, input.Number)
			if err != nil {
				return nil, err
			}

			sessions[idx].Approved = models.ApprovalApproved
			approved = sessions[idx].Clone()
			return sessions, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &ApproveOutput{Session: approved}, nil
}

// Disapprove removes the numbered pending session from the ledger
func (s *service) Disapprove(ctx context.Context, input *DisapproveInput) (*DisapproveOutput, error) {
	if input == nil || input.TargetName == "" {
		return nil, errors.New("input and target cannot be empty")
	}

	if err := s.requireAuthority(ctx, input.ApproverUserID, input.TargetName); err != nil {
		return nil, err
	}

	var removed *models.Session
	_, err := s.attendanceRepo.UpdateSessions(ctx, &attendanceRepo.UpdateSessionsInput{
		Update: func(sessions []*models.Session) ([]*models.Session, error) {
			idx, err := pendingPosition(sessions, input.TargetName, input.Number)
			if err != nil {
				return nil, err
			}

			removed = sessions[idx].Clone()
			return append(sessions[:idx], sessions[idx+1:]...), nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &DisapproveOutput{Session: removed}, nil
}

// ApproveAll marks every pending session for the target approved in one
// write. Zero pending sessions is a no-op that leaves the ledger
// untouched and returns 0.
func (s *service) ApproveAll(ctx context.Context, input *ApproveAllInput) (*ApproveAllOutput, error) {
	if input == nil || input.TargetName == "" {
		return nil, errors.New("input and target cannot be empty")
	}

	if err := s.requireAuthority(ctx, input.ApproverUserID, input.TargetName); err != nil {
		return nil, err
	}

	count := 0
	_, err := s.attendanceRepo.UpdateSessions(ctx, &attendanceRepo.UpdateSessionsInput{
		Update: func(sessions []*models.Session) ([]*models.Session, error) {
			for _, session := range sessions {
				if session.BelongsTo(input.TargetName) && session.IsPending() {
					session.Approved = models.ApprovalApproved
					count++
				}
			}
			if count == 0 {
				return nil, errNothingToApprove
			}
			return sessions, nil
		},
	})
	if err != nil && !errors.Is(err, errNothingToApprove) {
		return nil, err
	}

	return &ApproveAllOutput{Count: count}, nil
}

// requireAuthority runs the authorization check ahead of any mutation
func (s *service) requireAuthority(ctx context.Context, approverUserID, targetName string) error {
	authorized, err := s.authorized(ctx, approverUserID, targetName)
	if err != nil {
		return err
	}
	if !authorized {
		return ErrUnauthorized
	}
	return nil
}

// authorized implements the access policy: the approver must be strictly
// more senior than the target (lower ordinal), or the target's registered
// lead
func (s *service) authorized(ctx context.Context, approverUserID, targetName string) (bool, error) {
	approverOutput, err := s.memberRepo.GetMemberByUserID(ctx, &memberRepo.GetMemberByUserIDInput{
		UserID: approverUserID,
	})
	if err != nil {
		if errors.Is(err, memberRepo.ErrMemberNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up approver: %w", err)
	}
	approver := approverOutput.Member

	listOutput, err := s.memberRepo.ListMembers(ctx, &memberRepo.ListMembersInput{})
	if err != nil {
		return false, fmt.Errorf("failed to load members: %w", err)
	}

	var target *models.Member
	for _, m := range listOutput.Members {
		if strings.EqualFold(strings.TrimSpace(m.Name), strings.TrimSpace(targetName)) {
			target = m
			break
		}
	}
	if target == nil {
		return false, nil
	}

	if approver.Seniority < target.Seniority {
		return true, nil
	}

	return target.LeadUserID != "" && target.LeadUserID == approver.UserID, nil
}

// pendingPosition maps a 1-based pending-list number to the underlying
// ledger index
func pendingPosition(sessions []*models.Session, targetName string, number int) (int, error) {
	if number < 1 {
		return 0, ErrInvalidIndex
	}

	seen := 0
	for i, session := range sessions {
		if session.BelongsTo(targetName) && session.IsPending() {
			seen++
			if seen == number {
				return i, nil
			}
		}
	}

	return 0, ErrInvalidIndex
}
