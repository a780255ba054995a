package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"servicenova/internal/utils"
	"servicenova/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationTableName = "servicenova.provider_applications"

var applicationColumns = utils.StructTagValues(types.ProviderApplication{})

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) Application(ctx context.Context, applicationID string) (*types.ProviderApplication, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		Where(sq.Eq{"id": applicationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application query: %w", err)
	}

	var application = new(types.ProviderApplication)
	err = pgxscan.Get(ctx, r.pool, application, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application %s: %w", applicationID, err)
	}

	return application, nil
}

// ApplicationsByUser returns every application the user owns, most recently
// updated first.
func (r *ApplicationRepository) ApplicationsByUser(ctx context.Context, userID string) ([]*types.ProviderApplication, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications by user query: %w", err)
	}

	var applications = make([]*types.ProviderApplication, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications for user %s: %w", userID, err)
	}

	return applications, nil
}

// Applications lists all applications, newest submission first.
func (r *ApplicationRepository) Applications(ctx context.Context) ([]*types.ProviderApplication, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications query: %w", err)
	}

	var applications = make([]*types.ProviderApplication, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, nil
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, application *types.ProviderApplication) error {

	now := time.Now().UTC()
	application.ID = utils.NanoID()
	application.CreatedAt = now
	application.UpdatedAt = now
	if application.Certifications == nil {
		application.Certifications = []string{}
	}

	query, args, err := psql().
		Insert(applicationTableName).
		SetMap(utils.StructToMap(application)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert application query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create application")
}

// UpdateApplication applies the patch and returns the stored record. When
// expected is set the row is only touched while it still holds that status;
// a record that moved on in the meantime yields a TransitionError.
func (r *ApplicationRepository) UpdateApplication(ctx context.Context, applicationID string, expected types.ApplicationStatus, update types.ApplicationUpdate) (*types.ProviderApplication, error) {

	query, args, err := buildApplicationUpdate(applicationID, expected, update, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to generate update application query for application %s: %w", applicationID, err)
	}

	var application = new(types.ProviderApplication)
	err = pgxscan.Get(ctx, r.pool, application, query, args...)
	if err == nil {
		return application, nil
	}

	if !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to update application %s: %w", applicationID, err)
	}

	current, lookupErr := r.Application(ctx, applicationID)
	if lookupErr != nil {
		return nil, lookupErr
	}

	to := current.Status
	if update.Status != nil {
		to = *update.Status
	}

	return nil, &types.TransitionError{ApplicationID: applicationID, From: current.Status, To: to}
}

func buildApplicationUpdate(applicationID string, expected types.ApplicationStatus, update types.ApplicationUpdate, now time.Time) (string, []any, error) {
	set := map[string]any{"updated_at": now}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.InterviewLink != nil {
		set["interview_link"] = *update.InterviewLink
	}
	if update.AdminNotes != nil {
		set["admin_notes"] = *update.AdminNotes
	}

	where := sq.Eq{"id": applicationID}
	if expected != "" {
		where["status"] = expected
	}

	return psql().
		Update(applicationTableName).
		SetMap(set).
		Where(where).
		Suffix("RETURNING " + strings.Join(applicationColumns, ", ")).
		ToSql()
}
