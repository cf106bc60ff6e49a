package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists ranking records in Postgres. Implements RankingStore.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const rankingColumns = `
	user_id,
	weekly_performance::float8,
	monthly_performance::float8,
	all_time_performance::float8,
	win_rate::float8,
	consistency_score::float8,
	rank_tier,
	weeks_at_monarch,
	last_updated
`

// ByUser returns a user's ranking record, or ErrRankingNotFound
func (r *Repository) ByUser(ctx context.Context, userID string) (*Ranking, error) {
	query := `SELECT ` + rankingColumns + ` FROM rankings.rankings WHERE user_id = $1`

	var rec Ranking
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&rec.UserID,
		&rec.WeeklyPerf,
		&rec.MonthlyPerf,
		&rec.AllTimePerf,
		&rec.WinRate,
		&rec.ConsistencyScore,
		&rec.Tier,
		&rec.WeeksAtMonarch,
		&rec.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRankingNotFound
		}
		return nil, fmt.Errorf("query ranking for user %s: %w", userID, err)
	}

	return &rec, nil
}

// Upsert creates the user's record or overwrites its mutable fields
func (r *Repository) Upsert(ctx context.Context, rec *Ranking) error {
	query := `
		INSERT INTO rankings.rankings (
			user_id,
			weekly_performance,
			monthly_performance,
			all_time_performance,
			win_rate,
			consistency_score,
			rank_tier,
			weeks_at_monarch,
			last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			weekly_performance = EXCLUDED.weekly_performance,
			monthly_performance = EXCLUDED.monthly_performance,
			all_time_performance = EXCLUDED.all_time_performance,
			win_rate = EXCLUDED.win_rate,
			consistency_score = EXCLUDED.consistency_score,
			rank_tier = EXCLUDED.rank_tier,
			weeks_at_monarch = EXCLUDED.weeks_at_monarch,
			last_updated = EXCLUDED.last_updated
	`

	_, err := r.db.Exec(ctx, query,
		rec.UserID,
		rec.WeeklyPerf,
		rec.MonthlyPerf,
		rec.AllTimePerf,
		rec.WinRate,
		rec.ConsistencyScore,
		rec.Tier,
		rec.WeeksAtMonarch,
		rec.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert ranking for user %s: %w", rec.UserID, err)
	}

	return nil
}

// All returns every ranking record. Sorting happens in the reader, which
// also applies the deterministic tie-break.
func (r *Repository) All(ctx context.Context) ([]Ranking, error) {
	query := `SELECT ` + rankingColumns + ` FROM rankings.rankings ORDER BY user_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rankings: %w", err)
	}
	defer rows.Close()

	records := make([]Ranking, 0)
	for rows.Next() {
		var rec Ranking
		err := rows.Scan(
			&rec.UserID,
			&rec.WeeklyPerf,
			&rec.MonthlyPerf,
			&rec.AllTimePerf,
			&rec.WinRate,
			&rec.ConsistencyScore,
			&rec.Tier,
			&rec.WeeksAtMonarch,
			&rec.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		records = append(records, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate rankings: %w", rows.Err())
	}

	return records, nil
}
