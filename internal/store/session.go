package store

import (
	"context"
	"fmt"
	"time"

	"zakatportal/internal/utils"
	"zakatportal/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionTableName = "portal.applicant_sessions"

var sessionColumns = utils.StructTagValues(types.SessionRecord{})

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	pgxscan.Querier
}

var _ DB = (*pgxpool.Pool)(nil)

type SessionRepository struct {
	pool DB
}

func NewSessionRepository(pool DB) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, record *types.SessionRecord) error {
	if record.ID == "" {
		id, err := utils.SessionID()
		if err != nil {
			return fmt.Errorf("failed to generate session id: %w", err)
		}
		record.ID = id
	}
	record.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(sessionTableName).
		SetMap(utils.StructToMap(record)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create session query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Session returns the live session row, types.ErrSessionNotFound when it is
// missing or already expired.
func (r *SessionRepository) Session(ctx context.Context, id string) (*types.SessionRecord, error) {
	query, args, err := psql().
		Select(sessionColumns...).
		From(sessionTableName).
		Where(sq.Eq{"id": id}).
		Where(sq.Gt{"expires_at": time.Now()}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session query: %w", err)
	}

	var record types.SessionRecord
	err = pgxscan.Get(ctx, r.pool, &record, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	return &record, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql().
		Delete(sessionTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete session query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete session")
}

// DeleteExpired removes sessions that expired before now and reports how
// many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psql().
		Delete(sessionTableName).
		Where(sq.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate prune sessions query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
