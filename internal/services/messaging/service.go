package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// FormalOpenMessage is the pinned announcement used in formal mode
const FormalOpenMessage = "The shop is now open."

// shopOpenMessages is the casual announcement pool
var shopOpenMessages = []string{
	"Shop portal detached from frame alignment (shop open)",
	"Workshop door decoupled from its seal (shop active)",
	"Door-frame interface disengaged (workspace open)",
	"Entry barrier uncompressed from gasket (facility open)",
	"Primary door unengaged from strike plate (shop accessible)",
	"Ingress point mechanically liberated from frame (room open)",
	"Portal hinge system mobilized; access vector unobstructed (shop open)",
	"Entry mechanism actuated into the unsealed configuration (space open)",
	"Physical access impedance minimized (facility open)",
	"Threshold obstruction set to null (workspace open)",
	"Door has divorced the frame - irreconcilable openness achieved",
	"The door and frame are on a break (shop open)",
	"Door reoriented into welcoming position (shop open)",
	"Door is in open world mode (shop open)",
	"The gateway withdraws from its seal; the shop awakens",
	"The entry rune de-binds; passage permitted",
	"Barrier unsealed (shop open)",
	"Portal unlocked (workspace active)",
	"Ingress enabled (shop open)",
	"Workshop ingress panel unsealed - entry permitted",
	"Lab barrier unlocked - space accessible",
	"Workspace door ajar - open mode engaged",
}

// Service defines the interface for announcement text selection
type Service interface {
	// ShopOpenMessage returns the announcement for the shop opening
	ShopOpenMessage(ctx context.Context, input *ShopOpenMessageInput) (*ShopOpenMessageOutput, error)

	// ShopClosedMessage returns the announcement for the last person out
	ShopClosedMessage(ctx context.Context, input *ShopClosedMessageInput) (*ShopClosedMessageOutput, error)

	// SetAnnouncementMode switches between formal and casual announcements
	SetAnnouncementMode(ctx context.Context, input *SetAnnouncementModeInput) (*SetAnnouncementModeOutput, error)
}

// Config holds configuration for the messaging service
type Config struct {
	// Optional seed for deterministic message selection in tests
	Seed int64
}

// service implements the Service interface
type service struct {
	mu   sync.Mutex
	mode AnnouncementMode
	rand *rand.Rand
}

// New creates a new messaging service starting in casual mode
func New(cfg *Config) (*service, error) {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &service{
		mode: ModeCasual,
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// ShopOpenMessage returns the announcement for the shop opening, with the
// opener's name appended
func (s *service) ShopOpenMessage(ctx context.Context, input *ShopOpenMessageInput) (*ShopOpenMessageOutput, error) {
	if input == nil || input.MemberName == "" {
		return nil, errors.New("input and member name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	opener := FormalOpenMessage
	if s.mode == ModeCasual {
		opener = shopOpenMessages[s.rand.Intn(len(shopOpenMessages))] + "."
	}

	return &ShopOpenMessageOutput{
		Message: fmt.Sprintf("%s %s checked in.", opener, input.MemberName),
	}, nil
}

// ShopClosedMessage returns the announcement for the last person out
func (s *service) ShopClosedMessage(ctx context.Context, input *ShopClosedMessageInput) (*ShopClosedMessageOutput, error) {
	if input == nil || input.MemberName == "" {
		return nil, errors.New("input and member name cannot be empty")
	}

	return &ShopClosedMessageOutput{
		Message: fmt.Sprintf("Shop closed. Last person out: %s", input.MemberName),
	}, nil
}

// SetAnnouncementMode switches between formal and casual announcements
func (s *service) SetAnnouncementMode(ctx context.Context, input *SetAnnouncementModeInput) (*SetAnnouncementModeOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Mode != ModeFormal && input.Mode != ModeCasual {
		return nil, fmt.Errorf("unknown announcement mode %q", input.Mode)
	}

	s.mu.Lock()
	s.mode = input.Mode
	s.mu.Unlock()

	return &SetAnnouncementModeOutput{Mode: input.Mode}, nil
}
