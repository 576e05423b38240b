package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KirkDiggler/shopkeep/internal/models"
)

// timeFormat is the on-disk timestamp layout. RFC 3339 with second
// precision round-trips losslessly through parse-and-reformat.
const timeFormat = time.RFC3339

// ledgerHeaders is the canonical column set, written on first touch
var ledgerHeaders = []string{"card_uid", "member_name", "check_in", "check_out", "hours", "approved"}

// Config holds configuration for the CSV attendance repository
type Config struct {
	// Path is the location of the attendance CSV file
	Path string
}

// csvRepository implements the Repository interface on a flat CSV file.
// Every write lands in a scratch file that is renamed over the ledger, so
// a crash mid-write leaves the previous contents intact.
type csvRepository struct {
	path string
	mu   sync.Mutex
}

// NewCSV creates a new file-backed attendance repository, creating an
// empty ledger with the canonical columns if none exists
func NewCSV(cfg *Config) (*csvRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("ledger path cannot be empty")
	}

	r := &csvRepository{
		path: cfg.Path,
	}

	if err := r.ensureFile(); err != nil {
		return nil, fmt.Errorf("failed to initialize ledger %s: %w", cfg.Path, err)
	}

	return r, nil
}

// ensureFile performs first-touch initialization: a zero-session ledger
// with only the header row
func (r *csvRepository) ensureFile() error {
	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	return r.writeLocked(nil)
}

// ReadSessions returns the full ordered session sequence
func (r *csvRepository) ReadSessions(ctx context.Context, input *ReadSessionsInput) (*ReadSessionsOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.readLocked()
	if err != nil {
		return nil, err
	}

	return &ReadSessionsOutput{Sessions: sessions}, nil
}

// WriteSessions replaces the entire stored sequence in one durable operation
func (r *csvRepository) WriteSessions(ctx context.Context, input *WriteSessionsInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeLocked(input.Sessions)
}

// AppendSession adds a session to the end of the sequence. Implemented as a
// full rewrite-and-rename so the atomicity guarantee matches WriteSessions:
// a partial append is never observable.
func (r *csvRepository) AppendSession(ctx context.Context, input *AppendSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.readLocked()
	if err != nil {
		return err
	}

	return r.writeLocked(append(sessions, input.Session))
}

// UpdateSessions runs a read-modify-write under the repository mutex
func (r *csvRepository) UpdateSessions(ctx context.Context, input *UpdateSessionsInput) (*UpdateSessionsOutput, error) {
	if input == nil || input.Update == nil {
		return nil, errors.New("input and update func cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.readLocked()
	if err != nil {
		return nil, err
	}

	updated, err := input.Update(sessions)
	if err != nil {
		return nil, err
	}

	if err := r.writeLocked(updated); err != nil {
		return nil, err
	}

	return &UpdateSessionsOutput{Sessions: updated}, nil
}

// readLocked parses the ledger file. Rows that fail to parse are
// quarantined: skipped with a log line, never fatal. Caller holds r.mu.
func (r *csvRepository) readLocked() ([]*models.Session, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	sessions := make([]*models.Session, 0, len(records))
	for i, record := range records {
		// Header row
		if i == 0 {
			continue
		}

		session, err := parseRecord(record)
		if err != nil {
			log.Printf("Skipping malformed ledger row %d: %v", i+1, err)
			continue
		}

		sessions = append(sessions, session)
	}

	return sessions, nil
}

// writeLocked replaces the ledger contents atomically. The rows are
// written to a uniquely named scratch file in the same directory, synced,
// and renamed into place; the scratch file is discarded on any failure
// before the rename. Caller holds r.mu.
func (r *csvRepository) writeLocked(sessions []*models.Session) error {
	scratch := fmt.Sprintf("%s.%s.tmp", r.path, uuid.New().String())

	f, err := os.OpenFile(scratch, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create scratch file: %w", err)
	}

	discard := func(cause error) error {
		f.Close()
		if rmErr := os.Remove(scratch); rmErr != nil {
			log.Printf("Failed to remove scratch file %s: %v", scratch, rmErr)
		}
		return cause
	}

	writer := csv.NewWriter(f)

	if err := writer.Write(ledgerHeaders); err != nil {
		return discard(fmt.Errorf("failed to write ledger header: %w", err))
	}

	for _, session := range sessions {
		if err := writer.Write(formatRecord(session)); err != nil {
			return discard(fmt.Errorf("failed to write ledger row: %w", err))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return discard(fmt.Errorf("failed to flush ledger rows: %w", err))
	}

	if err := f.Sync(); err != nil {
		return discard(fmt.Errorf("failed to sync scratch file: %w", err))
	}

	if err := f.Close(); err != nil {
		if rmErr := os.Remove(scratch); rmErr != nil {
			log.Printf("Failed to remove scratch file %s: %v", scratch, rmErr)
		}
		return fmt.Errorf("failed to close scratch file: %w", err)
	}

	if err := os.Rename(scratch, r.path); err != nil {
		if rmErr := os.Remove(scratch); rmErr != nil {
			log.Printf("Failed to remove scratch file %s: %v", scratch, rmErr)
		}
		return fmt.Errorf("failed to replace ledger: %w", err)
	}

	return nil
}

// parseRecord converts a CSV row into a session
func parseRecord(record []string) (*models.Session, error) {
	if len(record) < len(ledgerHeaders) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(ledgerHeaders), len(record))
	}

	checkIn, err := time.Parse(timeFormat, strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("malformed check_in %q: %w", record[2], err)
	}

	var checkOut time.Time
	if rawOut := strings.TrimSpace(record[3]); rawOut != "" {
		checkOut, err = time.Parse(timeFormat, rawOut)
		if err != nil {
			return nil, fmt.Errorf("malformed check_out %q: %w", record[3], err)
		}
	}

	// Missing or unparseable hours read as zero; the value is recomputed
	// on every check-out anyway
	hours, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
	if err != nil {
		hours = 0
	}

	return &models.Session{
		CardUID:    strings.TrimSpace(record[0]),
		MemberName: strings.TrimSpace(record[1]),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Hours:      hours,
		Approved:   parseApproval(record[5]),
	}, nil
}

// formatRecord converts a session into a CSV row
func formatRecord(session *models.Session) []string {
	checkOut := ""
	if !session.CheckOut.IsZero() {
		checkOut = session.CheckOut.Format(timeFormat)
	}

	approved := "false"
	if session.Approved == models.ApprovalApproved {
		approved = "true"
	}

	return []string{
		session.CardUID,
		session.MemberName,
		session.CheckIn.Format(timeFormat),
		checkOut,
		strconv.FormatFloat(session.Hours, 'f', -1, 64),
		approved,
	}
}

// parseApproval maps the on-disk approval flag to a state. An empty or
// absent value is treated identically to pending.
func parseApproval(raw string) models.ApprovalState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "approved":
		return models.ApprovalApproved
	default:
		return models.ApprovalPending
	}
}
