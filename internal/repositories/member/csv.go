package member

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KirkDiggler/shopkeep/internal/models"
)

// memberHeaders is the registry's column set
var memberHeaders = []string{"card_uid", "member_name", "user_id", "seniority", "lead_user_id"}

// Config holds configuration for the CSV member repository
type Config struct {
	// Path is the location of the members CSV file
	Path string
}

// csvRepository implements the Repository interface on the members CSV
// file. The file is re-read on every call so manual edits take effect on
// the next command without a restart.
type csvRepository struct {
	path string
}

// NewCSV creates a new file-backed member repository
func NewCSV(cfg *Config) (*csvRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("members path cannot be empty")
	}

	return &csvRepository{
		path: cfg.Path,
	}, nil
}

// GetMemberByUserID retrieves a member by chat handle
func (r *csvRepository) GetMemberByUserID(ctx context.Context, input *GetMemberByUserIDInput) (*GetMemberByUserIDOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	members, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		if m.UserID == strings.TrimSpace(input.UserID) {
			return &GetMemberByUserIDOutput{Member: m}, nil
		}
	}

	return nil, ErrMemberNotFound
}

// GetMemberByCard retrieves a member by card UID. The lookup normalizes
// the UID the same way the registry does (uppercase, trimmed).
func (r *csvRepository) GetMemberByCard(ctx context.Context, input *GetMemberByCardInput) (*GetMemberByCardOutput, error) {
	if input == nil || input.CardUID == "" {
		return nil, errors.New("input and card UID cannot be empty")
	}

	members, err := r.load()
	if err != nil {
		return nil, err
	}

	want := NormalizeCardUID(input.CardUID)
	for _, m := range members {
		if m.CardUID == want {
			return &GetMemberByCardOutput{Member: m}, nil
		}
	}

	return nil, ErrMemberNotFound
}

// ListMembers retrieves all registered members
func (r *csvRepository) ListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	members, err := r.load()
	if err != nil {
		return nil, err
	}

	return &ListMembersOutput{Members: members}, nil
}

// load reads the registry file. A missing file is an empty registry.
func (r *csvRepository) load() ([]*models.Member, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open members file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read members file: %w", err)
	}

	members := make([]*models.Member, 0, len(records))
	for i, record := range records {
		// Header row
		if i == 0 {
			continue
		}

		if len(record) < len(memberHeaders) {
			continue
		}

		members = append(members, &models.Member{
			CardUID:    NormalizeCardUID(record[0]),
			Name:       strings.TrimSpace(record[1]),
			UserID:     strings.TrimSpace(record[2]),
			Seniority:  parseSeniority(record[3]),
			LeadUserID: strings.TrimSpace(record[4]),
		})
	}

	return members, nil
}

// NormalizeCardUID maps a raw card identifier to registry form:
// uppercase with surrounding whitespace removed
func NormalizeCardUID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// parseSeniority returns the member's rank, defaulting to the least
// senior rank when the value is missing or unparseable
func parseSeniority(raw string) int {
	rank, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || rank < models.MostSeniorRank {
		return models.LeastSeniorRank
	}
	return rank
}
