package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/baxromumarov/congress-tracker/internal/xmltree"
)

// Store mirrors collected votes and bills into PostgreSQL.
type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func clampLimit(limit int, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// VoteRecord is one stored roll-call document.
type VoteRecord struct {
	ID          int           `json:"id"`
	Chamber     string        `json:"chamber"`
	Year        int           `json:"year"`
	Number      int           `json:"number"`
	SourceURL   string        `json:"source_url"`
	Question    string        `json:"question"`
	Result      string        `json:"result"`
	Date        string        `json:"date"`
	Document    xmltree.Value `json:"document,omitempty"`
	CollectedAt time.Time     `json:"collected_at"`
}

// BillRecord is one stored bill, resolution or nomination.
type BillRecord struct {
	ID           int             `json:"id"`
	BillType     string          `json:"bill_type"`
	Year         int             `json:"year"`
	Number       int             `json:"number"`
	Title        string          `json:"title"`
	URL          string          `json:"url"`
	Status       string          `json:"status"`
	LatestAction string          `json:"latest_action"`
	Data         json.RawMessage `json:"data"`
	CollectedAt  time.Time       `json:"collected_at"`
}

func (s *Store) SaveVote(ctx context.Context, v VoteRecord) error {
	doc, err := xmltree.Marshal(v.Document)
	if err != nil {
		return fmt.Errorf("failed to encode vote document: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO votes (chamber, year, number, source_url, question, result, vote_date, document, collected_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
ON CONFLICT (chamber, year, number) DO UPDATE SET
    source_url = EXCLUDED.source_url,
    question = EXCLUDED.question,
    result = EXCLUDED.result,
    vote_date = EXCLUDED.vote_date,
    document = EXCLUDED.document,
    updated_at = NOW()
`, v.Chamber, v.Year, v.Number, v.SourceURL, v.Question, v.Result, v.Date, string(doc))
	return err
}

// ListVotes returns stored votes of a chamber and year, newest first.
// Documents are not loaded; use GetVote for the full document.
func (s *Store) ListVotes(ctx context.Context, chamber string, year, limit, offset int) ([]VoteRecord, error) {
	limit = clampLimit(limit, 50, 500)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, chamber, year, number, source_url, question, result, vote_date, collected_at
FROM votes
WHERE chamber = $1 AND year = $2
ORDER BY number DESC
LIMIT $3 OFFSET $4
`, chamber, year, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []VoteRecord
	for rows.Next() {
		var v VoteRecord
		if err := rows.Scan(
			&v.ID,
			&v.Chamber,
			&v.Year,
			&v.Number,
			&v.SourceURL,
			&v.Question,
			&v.Result,
			&v.Date,
			&v.CollectedAt,
		); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (s *Store) GetVote(ctx context.Context, chamber string, year, number int) (*VoteRecord, error) {
	var (
		v   VoteRecord
		doc string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, chamber, year, number, source_url, question, result, vote_date, document::text, collected_at
FROM votes
WHERE chamber = $1 AND year = $2 AND number = $3
`, chamber, year, number).Scan(
		&v.ID,
		&v.Chamber,
		&v.Year,
		&v.Number,
		&v.SourceURL,
		&v.Question,
		&v.Result,
		&v.Date,
		&doc,
		&v.CollectedAt,
	)
	if err != nil {
		return nil, err
	}
	// JSONB does not keep key order; the archive copy is authoritative.
	v.Document, err = xmltree.Decode(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) SaveBill(ctx context.Context, b BillRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO bills (bill_type, year, number, title, url, status, latest_action, data, collected_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
ON CONFLICT (bill_type, year, number) DO UPDATE SET
    title = EXCLUDED.title,
    url = EXCLUDED.url,
    status = EXCLUDED.status,
    latest_action = EXCLUDED.latest_action,
    data = EXCLUDED.data,
    updated_at = NOW()
`, b.BillType, b.Year, b.Number, b.Title, b.URL, b.Status, b.LatestAction, string(b.Data))
	return err
}

func (s *Store) ListBills(ctx context.Context, billType string, year, limit, offset int) ([]BillRecord, error) {
	limit = clampLimit(limit, 50, 500)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, bill_type, year, number, title, url, status, latest_action, data::text, collected_at
FROM bills
WHERE bill_type = $1 AND year = $2
ORDER BY number
LIMIT $3 OFFSET $4
`, billType, year, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []BillRecord
	for rows.Next() {
		var (
			b    BillRecord
			data string
		)
		if err := rows.Scan(
			&b.ID,
			&b.BillType,
			&b.Year,
			&b.Number,
			&b.Title,
			&b.URL,
			&b.Status,
			&b.LatestAction,
			&data,
			&b.CollectedAt,
		); err != nil {
			return nil, err
		}
		b.Data = json.RawMessage(data)
		bills = append(bills, b)
	}
	return bills, rows.Err()
}
