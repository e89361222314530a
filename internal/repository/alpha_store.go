package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/repository"
)

// Schema statements for the append-only analysis tables (idempotent).
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS bias_analyses (
		id String,
		user_id String,
		bias_type LowCardinality(String),
		severity LowCardinality(String),
		description String,
		recommendation String,
		ts DateTime64(3)
	) ENGINE = MergeTree() ORDER BY (user_id, ts)`,
	`CREATE TABLE IF NOT EXISTS alpha_signals (
		id String,
		user_id String,
		asset LowCardinality(String),
		direction LowCardinality(String),
		confidence Float64,
		time_horizon LowCardinality(String),
		insight String,
		sources UInt16,
		category LowCardinality(String),
		ts DateTime64(3)
	) ENGINE = MergeTree() ORDER BY (user_id, ts)`,
}

// ClickHouseAlphaStore implements BiasStore and SignalStore over the
// append-only MergeTree tables.
type ClickHouseAlphaStore struct {
	db *sql.DB
}

// NewClickHouseAlphaStore creates the ClickHouse-backed analysis store.
func NewClickHouseAlphaStore(db *sql.DB) *ClickHouseAlphaStore {
	return &ClickHouseAlphaStore{db: db}
}

var (
	_ repository.BiasStore   = (*ClickHouseAlphaStore)(nil)
	_ repository.SignalStore = (*ClickHouseAlphaStore)(nil)
)

func (s *ClickHouseAlphaStore) InsertBiases(ctx context.Context, biases []models.BiasAnalysis) error {
	if len(biases) == 0 {
		return nil
	}
	values := make([]string, 0, len(biases))
	args := make([]interface{}, 0, len(biases)*7)
	for _, b := range biases {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, b.ID, b.UserID, b.BiasType, b.Severity, b.Description, b.Recommendation, b.DetectedAt)
	}
	q := "INSERT INTO bias_analyses (id, user_id, bias_type, severity, description, recommendation, ts) VALUES " + strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert biases: %w", err)
	}
	return nil
}

func (s *ClickHouseAlphaStore) RecentBiases(ctx context.Context, userID string, limit int) ([]models.BiasAnalysis, error) {
	q := `SELECT id, user_id, bias_type, severity, description, recommendation, ts
		FROM bias_analyses WHERE user_id = ? ORDER BY ts DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query biases: %w", err)
	}
	defer rows.Close()
	return scanBiases(rows)
}

func scanBiases(rows *sql.Rows) ([]models.BiasAnalysis, error) {
	var out []models.BiasAnalysis
	for rows.Next() {
		var b models.BiasAnalysis
		if err := rows.Scan(&b.ID, &b.UserID, &b.BiasType, &b.Severity, &b.Description, &b.Recommendation, &b.DetectedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *ClickHouseAlphaStore) InsertSignals(ctx context.Context, signals []models.AlphaSignal) error {
	if len(signals) == 0 {
		return nil
	}
	values := make([]string, 0, len(signals))
	args := make([]interface{}, 0, len(signals)*10)
	for _, sig := range signals {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, sig.ID, sig.UserID, sig.Asset, sig.Direction, sig.Confidence,
			sig.TimeHorizon, sig.Insight, uint16(sig.Sources), sig.Category, sig.Timestamp)
	}
	q := "INSERT INTO alpha_signals (id, user_id, asset, direction, confidence, time_horizon, insight, sources, category, ts) VALUES " + strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert signals: %w", err)
	}
	return nil
}

func (s *ClickHouseAlphaStore) RecentSignals(ctx context.Context, userID string, limit int) ([]models.AlphaSignal, error) {
	q := `SELECT id, user_id, asset, direction, confidence, time_horizon, insight, sources, category, ts
		FROM alpha_signals WHERE user_id = ? ORDER BY ts DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()
	return scanSignals(rows)
}

func scanSignals(rows *sql.Rows) ([]models.AlphaSignal, error) {
	var out []models.AlphaSignal
	for rows.Next() {
		var s models.AlphaSignal
		var sources uint16
		if err := rows.Scan(&s.ID, &s.UserID, &s.Asset, &s.Direction, &s.Confidence,
			&s.TimeHorizon, &s.Insight, &sources, &s.Category, &s.Timestamp); err != nil {
			return nil, err
		}
		s.Sources = int(sources)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (s *ClickHouseAlphaStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
