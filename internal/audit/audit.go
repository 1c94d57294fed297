package audit

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"APAgingSuite/internal/config"
	"APAgingSuite/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry describes one pipeline run. It deliberately carries counts only:
// no vendor names, amounts or ledger rows.
type Entry struct {
	RunID      string
	Source     string
	SourceSHA  string
	Rows       int
	ReportDate *time.Time
	APRows     int
	DPRows     int
	DebitRows  int
	Duration   time.Duration
	Failed     bool
	Error      string
	CreatedAt  time.Time
}

// Recorder stores run entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

// Service records runs in Postgres when a DSN is configured and is a no-op otherwise.
type Service struct {
	config map[string]interface{}
	dsn    string
	table  string
	pool   *pgxpool.Pool
}

func NewAuditService(cfg map[string]interface{}) *Service {
	return &Service{
		config: cfg,
		dsn:    config.String(cfg, "dsn", os.Getenv("AUDIT_DATABASE_URL")),
		table:  config.String(cfg, "table", config.DefaultAuditTable),
	}
}

func (s *Service) Name() string {
	return "audit"
}

func (s *Service) Enabled() bool {
	return s.pool != nil
}

func (s *Service) Start() error {
	log := logger.L()
	if s.dsn == "" {
		log.Info().Msg("run audit disabled: no dsn configured")
		return nil
	}
	if !tableName.MatchString(s.table) {
		return fmt.Errorf("invalid audit table name %q", s.table)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("audit pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("audit ping: %w", err)
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id      UUID PRIMARY KEY,
	source_name TEXT NOT NULL,
	source_sha  TEXT,
	row_count   INTEGER NOT NULL,
	report_date DATE,
	ap_rows     INTEGER NOT NULL,
	dp_rows     INTEGER NOT NULL,
	debit_rows  INTEGER NOT NULL,
	duration_ms BIGINT NOT NULL,
	failed      BOOLEAN NOT NULL DEFAULT false,
	error_text  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table)); err != nil {
		pool.Close()
		return fmt.Errorf("audit schema: %w", err)
	}
	s.pool = pool
	log.Info().Str("table", s.table).Msg("run audit enabled")
	return nil
}

func (s *Service) Stop() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

// Record inserts e. Without a pool it does nothing.
func (s *Service) Record(ctx context.Context, e Entry) error {
	if s.pool == nil {
		return nil
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	var errText *string
	if e.Error != "" {
		errText = &e.Error
	}
	q := fmt.Sprintf(`INSERT INTO %s
	(run_id, source_name, source_sha, row_count, report_date, ap_rows, dp_rows, debit_rows, duration_ms, failed, error_text, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, s.table)
	_, err := s.pool.Exec(ctx, q,
		e.RunID, e.Source, e.SourceSHA, e.Rows, e.ReportDate, e.APRows, e.DPRows, e.DebitRows,
		e.Duration.Milliseconds(), e.Failed, errText, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}
