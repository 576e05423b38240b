// Package scanner drives the card-reader loop: each scan toggles the
// presenting member between checked in and checked out, feeding the same
// session engine and escalation chain as the chat commands.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/KirkDiggler/shopkeep/internal/display"
	"github.com/KirkDiggler/shopkeep/internal/models"
	"github.com/KirkDiggler/shopkeep/internal/reader"
	memberRepo "github.com/KirkDiggler/shopkeep/internal/repositories/member"
	attendanceService "github.com/KirkDiggler/shopkeep/internal/services/attendance"
	escalationService "github.com/KirkDiggler/shopkeep/internal/services/escalation"
	messagingService "github.com/KirkDiggler/shopkeep/internal/services/messaging"
)

// Notifier delivers announcements and direct messages on behalf of the
// scan loop, which has no chat interaction of its own. The Discord bot
// satisfies this.
type Notifier interface {
	Announce(ctx context.Context, text string) error
	NotifyUser(ctx context.Context, userID, text string) error
}

// Config holds the collaborators for the scan loop
type Config struct {
	Reader            reader.Reader
	Display           display.Display
	MemberRepo        memberRepo.Repository
	AttendanceService attendanceService.Service
	EscalationService escalationService.Service
	MessagingService  messagingService.Service
	Notifier          Notifier
}

// Scanner runs the card-scan loop
type Scanner struct {
	config *Config
}

// New creates a new scanner
func New(cfg *Config) (*Scanner, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Reader == nil || cfg.Display == nil {
		return nil, errors.New("reader and display cannot be nil")
	}

	if cfg.MemberRepo == nil || cfg.AttendanceService == nil ||
		cfg.EscalationService == nil || cfg.MessagingService == nil {
		return nil, errors.New("all repositories and services must be provided")
	}

	if cfg.Notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}

	return &Scanner{config: cfg}, nil
}

// Run consumes card scans until the context ends or the reader is
// exhausted
func (s *Scanner) Run(ctx context.Context) error {
	for {
		uid, err := s.config.Reader.ReadCard(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("card reader failed: %w", err)
		}

		s.handleScan(ctx, uid)
	}
}

// handleScan toggles the presenting member's state. A member with an open
// session checks out; anyone else checks in.
func (s *Scanner) handleScan(ctx context.Context, uid string) {
	lookupOutput, err := s.config.MemberRepo.GetMemberByCard(ctx, &memberRepo.GetMemberByCardInput{CardUID: uid})
	if err != nil {
		if errors.Is(err, memberRepo.ErrMemberNotFound) {
			s.config.Display.ShowText("Unknown card")
			return
		}
		log.Printf("Card lookup failed for %s: %v", uid, err)
		s.config.Display.ShowText("Reader error")
		return
	}

	member := lookupOutput.Member

	checkInOutput, err := s.config.AttendanceService.CheckIn(ctx, &attendanceService.CheckInInput{Member: member})
	if err == nil {
		s.config.Display.ShowText(fmt.Sprintf("Welcome %s", member.Name))
		if checkInOutput.ShopWasEmpty {
			s.announceShopOpen(ctx, member.Name)
		}
		return
	}

	if !errors.Is(err, attendanceService.ErrAlreadyCheckedIn) {
		log.Printf("Check-in failed for %s: %v", member.Name, err)
		s.config.Display.ShowText("Check-in failed")
		return
	}

	s.checkOut(ctx, member)
}

// checkOut closes the member's session and runs the notification chain
func (s *Scanner) checkOut(ctx context.Context, member *models.Member) {
	output, err := s.config.AttendanceService.CheckOut(ctx, &attendanceService.CheckOutInput{Member: member})
	if err != nil {
		if errors.Is(err, attendanceService.ErrInconsistentState) {
			s.config.Display.ShowText("State cleared, scan again")
			return
		}
		log.Printf("Check-out failed for %s: %v", member.Name, err)
		s.config.Display.ShowText("Check-out failed")
		return
	}

	s.config.Display.ShowText(fmt.Sprintf("Goodbye %s", member.Name))

	resolveOutput, err := s.config.EscalationService.Resolve(ctx, &escalationService.ResolveInput{
		Session:      output.Session,
		CheckOutTime: output.CheckOutTime,
		Departing:    member,
		Present:      output.Remaining,
	})
	if err != nil {
		log.Printf("Failed to resolve notification target for %s: %v", member.Name, err)
	} else if resolveOutput.UserID != "" {
		notice := fmt.Sprintf("%s checked out. Hours worked: %.2f", member.Name, output.Hours)
		if err := s.config.Notifier.NotifyUser(ctx, resolveOutput.UserID, notice); err != nil {
			log.Printf("Failed to notify %s: %v", resolveOutput.UserID, err)
		}
	}

	if output.ShopNowEmpty {
		s.announceShopClosed(ctx, member.Name)
	}
}

// announceShopOpen posts the shop-open announcement
func (s *Scanner) announceShopOpen(ctx context.Context, memberName string) {
	msgOutput, err := s.config.MessagingService.ShopOpenMessage(ctx, &messagingService.ShopOpenMessageInput{MemberName: memberName})
	if err != nil {
		log.Printf("Failed to build shop-open announcement: %v", err)
		return
	}
	if err := s.config.Notifier.Announce(ctx, msgOutput.Message); err != nil {
		log.Printf("Failed to announce: %v", err)
	}
}

// announceShopClosed posts the last-person-out announcement
func (s *Scanner) announceShopClosed(ctx context.Context, memberName string) {
	msgOutput, err := s.config.MessagingService.ShopClosedMessage(ctx, &messagingService.ShopClosedMessageInput{MemberName: memberName})
	if err != nil {
		log.Printf("Failed to build shop-closed announcement: %v", err)
		return
	}
	if err := s.config.Notifier.Announce(ctx, msgOutput.Message); err != nil {
		log.Printf("Failed to announce: %v", err)
	}
}
