package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/pkg/apperrors"
	"github.com/yigit/academia/internal/pkg/dberrors"
	"github.com/yigit/academia/internal/pkg/logger"
)

// SessionRepository is the PostgreSQL SessionStore
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new session at version 1
func (r *SessionRepository) Create(ctx context.Context, session *models.AcademicSession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	session.Version = 1

	sql, args, err := r.sb.Insert(sessionTable).
		Columns(sessionColumns...).
		Values(sessionInsertValues(session)...).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, sessionPrimaryKey):
			return apperrors.ErrSessionAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewFieldValidationError("departmentId", "department does not exist")
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("session violates a stored invariant")
		}
		logger.Error().Err(err).Str("sessionID", session.ID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// readOptions gives reads one snapshot across the session rows and their logs.
var readOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// GetByID retrieves a session together with its promotion log
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	sql, args, err := r.sb.Select(sessionColumns...).
		From(sessionTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get session SQL")
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	var session *models.AcademicSession
	err = pgx.BeginTxFunc(ctx, r.db, readOptions, func(tx pgx.Tx) error {
		var err error
		session, err = scanSession(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || dberrors.IsInvalidTextRepresentation(err) {
				return apperrors.ErrSessionNotFound
			}
			logger.Error().Err(err).Str("sessionID", id).Msg("Error scanning session row")
			return fmt.Errorf("error getting session by ID: %w", err)
		}
		return r.attachLogs(ctx, tx, []*models.AcademicSession{session})
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListByDepartment lists the sessions of a department ordered by start year
func (r *SessionRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]*models.AcademicSession, error) {
	return r.list(ctx, squirrel.Eq{"department_id": departmentID})
}

// ListByInstitute lists the sessions of an institute, or all sessions for 0
func (r *SessionRepository) ListByInstitute(ctx context.Context, instituteID int64) ([]*models.AcademicSession, error) {
	if instituteID == 0 {
		return r.list(ctx, nil)
	}
	return r.list(ctx, squirrel.Eq{"institute_id": instituteID})
}

func (r *SessionRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.AcademicSession, error) {
	query := r.sb.Select(sessionColumns...).From(sessionTable)
	if where != nil {
		query = query.Where(where)
	}
	sql, args, err := query.OrderBy("start_year ASC", "id ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list sessions SQL")
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	var sessions []*models.AcademicSession
	err = pgx.BeginTxFunc(ctx, r.db, readOptions, func(tx pgx.Tx) error {
		var err error
		sessions, err = r.scanSessions(ctx, tx, sql, args)
		if err != nil {
			return err
		}
		return r.attachLogs(ctx, tx, sessions)
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) scanSessions(ctx context.Context, tx pgx.Tx, sql string, args []interface{}) ([]*models.AcademicSession, error) {
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list sessions query")
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.AcademicSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning session row during list")
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating session rows")
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}

// attachLogs loads promotion logs for sessions with a single IN query inside
// the transaction that read the sessions.
func (r *SessionRepository) attachLogs(ctx context.Context, tx pgx.Tx, sessions []*models.AcademicSession) error {
	if len(sessions) == 0 {
		return nil
	}
	ids, byID := indexSessions(sessions)

	sql, args, err := r.sb.Select(promotionLogColumns...).
		From(promotionLogTable).
		Where(squirrel.Eq{"session_id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build promotion log query: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing promotion log query")
		return fmt.Errorf("error querying promotion log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		sessionID, entry, err := scanPromotionLogEntry(rows)
		if err != nil {
			return fmt.Errorf("error scanning promotion log row: %w", err)
		}
		if s, ok := byID[sessionID]; ok {
			s.PromotionLog = append(s.PromotionLog, entry)
		}
	}
	return rows.Err()
}

// Update writes the mutable columns guarded by the version the caller read and
// appends entry to the promotion log in the same transaction.
func (r *SessionRepository) Update(ctx context.Context, session *models.AcademicSession, entry *models.PromotionLogEntry) error {
	if err := session.Validate(); err != nil {
		return err
	}
	expected := session.Version

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.sb.Update(sessionTable).
			SetMap(sessionUpdateMap(session, expected+1)).
			Where(squirrel.Eq{"id": session.ID, "version": expected}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update session query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			if dberrors.IsCheckViolation(err) {
				return apperrors.NewValidationError("session violates a stored invariant")
			}
			return fmt.Errorf("error updating session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return r.missOrConflict(ctx, tx, session.ID)
		}

		if entry == nil {
			return nil
		}
		sql, args, err = r.sb.Insert(promotionLogTable).
			Columns(promotionLogColumns...).
			Values(promotionLogValues(session.ID, entry)...).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build promotion log insert: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error appending promotion log: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.Kind(err) == nil {
			logger.Error().Err(err).Str("sessionID", session.ID).Msg("Error executing update session transaction")
		}
		return err
	}

	session.Version = expected + 1
	if entry != nil {
		session.PromotionLog = append(session.PromotionLog, *entry)
	}
	return nil
}

// missOrConflict explains a zero-row update.
func (r *SessionRepository) missOrConflict(ctx context.Context, tx pgx.Tx, id string) error {
	var exists bool
	err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM "+sessionTable+" WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		if dberrors.IsInvalidTextRepresentation(err) {
			return apperrors.ErrSessionNotFound
		}
		return fmt.Errorf("error checking session existence: %w", err)
	}
	if !exists {
		return apperrors.ErrSessionNotFound
	}
	return apperrors.NewConcurrencyConflictError("session was modified by another request; re-read it and decide again").
		WithDetails(map[string]interface{}{"sessionId": id})
}
