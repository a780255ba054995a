package store

import (
	"context"
	"fmt"
	"time"

	"servicenova/internal/utils"
	"servicenova/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userTableName = "servicenova.users"

var userColumns = utils.StructTagValues(types.User{})

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// UpsertIdentity records the identity fields seen at sign-in.
func (r *UserRepository) UpsertIdentity(ctx context.Context, userID, email, givenName, familyName string) error {
	now := time.Now().UTC()

	query, args, err := psql().
		Insert(userTableName).
		Columns("id", "email", "given_name", "family_name", "created_at", "updated_at").
		Values(userID, utils.TrimmedPtr(email), utils.TrimmedPtr(givenName), utils.TrimmedPtr(familyName), now, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = COALESCE(EXCLUDED.email, users.email), given_name = COALESCE(EXCLUDED.given_name, users.given_name), family_name = COALESCE(EXCLUDED.family_name, users.family_name), updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert identity user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert user identity fields: %w", err)
	}

	return nil
}
