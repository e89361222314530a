package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/repository"
)

// PgxPool is the subset of *pgxpool.Pool the store needs. Tests stub it.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresPortfolioStore reads portfolio positions and user settings from
// the tables owned by the portfolio CRUD service.
type PostgresPortfolioStore struct {
	pool PgxPool
}

// NewPostgresPortfolioStore creates the read-only Postgres store.
func NewPostgresPortfolioStore(pool PgxPool) *PostgresPortfolioStore {
	return &PostgresPortfolioStore{pool: pool}
}

var (
	_ repository.PortfolioStore = (*PostgresPortfolioStore)(nil)
	_ repository.SettingsStore  = (*PostgresPortfolioStore)(nil)
)

func (s *PostgresPortfolioStore) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	const q = `SELECT h.symbol, h.shares, h.average_cost, h.created_at
		FROM portfolio_holdings h
		JOIN portfolios p ON p.id = h.portfolio_id
		WHERE p.user_id = $1
		ORDER BY h.created_at`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares, &h.AverageCost, &h.AddedAt); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read holdings: %w", err)
	}
	return holdings, nil
}

func (s *PostgresPortfolioStore) RiskSettings(ctx context.Context, userID string) (models.RiskSettings, error) {
	settings := models.RiskSettings{UserID: userID, RiskTolerance: "moderate"}
	const q = `SELECT risk_tolerance FROM user_settings WHERE user_id = $1`
	err := s.pool.QueryRow(ctx, q, userID).Scan(&settings.RiskTolerance)
	if errors.Is(err, pgx.ErrNoRows) {
		// No stored preferences yet, keep the moderate default.
		return settings, nil
	}
	if err != nil {
		return models.RiskSettings{}, fmt.Errorf("query settings: %w", err)
	}
	return settings, nil
}
