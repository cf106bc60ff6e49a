package trade

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads trades and users from Postgres. The trade journal CRUD
// itself lives in another service; this repository is the read-only view
// the ranking engine consumes.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// TradesByUser returns every trade recorded for a user
func (r *Repository) TradesByUser(ctx context.Context, userID string) ([]Trade, error) {
	query := `
		SELECT
			id,
			user_id,
			side,
			asset_class,
			symbol,
			entry_price::float8,
			exit_price::float8,
			quantity::float8,
			stop_loss,
			take_profit,
			leverage::float8,
			profit_loss::float8,
			profit_loss_pct::float8,
			executed_at,
			COALESCE(notes, ''),
			created_at
		FROM journal.trades
		WHERE user_id = $1
		ORDER BY executed_at, created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query trades for user %s: %w", userID, err)
	}
	defer rows.Close()

	trades := make([]Trade, 0)
	for rows.Next() {
		var t Trade
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Side,
			&t.AssetClass,
			&t.Symbol,
			&t.EntryPrice,
			&t.ExitPrice,
			&t.Quantity,
			&t.StopLoss,
			&t.TakeProfit,
			&t.Leverage,
			&t.ProfitLoss,
			&t.ProfitLossPct,
			&t.ExecutedAt,
			&t.Notes,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, t)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate trades: %w", rows.Err())
	}

	return trades, nil
}

// ListUserIDs returns the ids of all registered users
func (r *Repository) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM accounts.users ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate user ids: %w", rows.Err())
	}

	return ids, nil
}

// UserProfile carries the display fields the leaderboard is enriched with
type UserProfile struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// ProfilesByID returns display fields for the given users, keyed by id.
// Users missing from the accounts table are simply absent from the map.
func (r *Repository) ProfilesByID(ctx context.Context, userIDs []string) (map[string]UserProfile, error) {
	if len(userIDs) == 0 {
		return map[string]UserProfile{}, nil
	}

	query := `
		SELECT
			id,
			username,
			COALESCE(display_name, username),
			COALESCE(avatar_url, '')
		FROM accounts.users
		WHERE id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("query user profiles: %w", err)
	}
	defer rows.Close()

	profiles := make(map[string]UserProfile, len(userIDs))
	for rows.Next() {
		var p UserProfile
		if err := rows.Scan(&p.UserID, &p.Username, &p.DisplayName, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan user profile: %w", err)
		}
		profiles[p.UserID] = p
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate user profiles: %w", rows.Err())
	}

	return profiles, nil
}
