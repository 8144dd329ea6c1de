package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/pkg/apperrors"
	"github.com/yigit/academia/internal/pkg/logger"
)

// NewSQLiteRepositories builds repositories over an SQLite database whose
// schema has already been migrated. Closing the repositories closes db.
func NewSQLiteRepositories(db *sql.DB) *Repositories {
	directory := NewSQLiteDirectory(db)
	return &Repositories{
		Sessions:    NewSQLiteSessionStore(db),
		Departments: directory,
		Directory:   directory,
		closeFn:     db.Close,
	}
}

// SQLiteSessionStore is the embedded SessionStore
type SQLiteSessionStore struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewSQLiteSessionStore creates a session store over db
func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// isSQLiteConstraint matches the driver's constraint failure messages.
func isSQLiteConstraint(err error, kind string) bool {
	return err != nil && strings.Contains(err.Error(), kind+" constraint failed")
}

// Create inserts a new session at version 1
func (r *SQLiteSessionStore) Create(ctx context.Context, session *models.AcademicSession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	session.Version = 1

	query, args, err := r.sb.Insert(sessionTable).
		Columns(sessionColumns...).
		Values(sessionInsertValues(session)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		switch {
		case isSQLiteConstraint(err, "UNIQUE"), isSQLiteConstraint(err, "PRIMARY KEY"):
			return apperrors.ErrSessionAlreadyExists
		case isSQLiteConstraint(err, "FOREIGN KEY"):
			return apperrors.NewFieldValidationError("departmentId", "department does not exist")
		case isSQLiteConstraint(err, "CHECK"):
			return apperrors.NewValidationError("session violates a stored invariant")
		}
		logger.Error().Err(err).Str("sessionID", session.ID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// readTx runs fn in a read-only transaction so the session rows and their
// promotion logs come from the same committed state.
func (r *SQLiteSessionStore) readTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to start read transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID retrieves a session together with its promotion log
func (r *SQLiteSessionStore) GetByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	query, args, err := r.sb.Select(sessionColumns...).
		From(sessionTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	var session *models.AcademicSession
	err = r.readTx(ctx, func(tx *sql.Tx) error {
		var err error
		session, err = scanSession(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
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
func (r *SQLiteSessionStore) ListByDepartment(ctx context.Context, departmentID int64) ([]*models.AcademicSession, error) {
	return r.list(ctx, squirrel.Eq{"department_id": departmentID})
}

// ListByInstitute lists the sessions of an institute, or all sessions for 0
func (r *SQLiteSessionStore) ListByInstitute(ctx context.Context, instituteID int64) ([]*models.AcademicSession, error) {
	if instituteID == 0 {
		return r.list(ctx, nil)
	}
	return r.list(ctx, squirrel.Eq{"institute_id": instituteID})
}

func (r *SQLiteSessionStore) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.AcademicSession, error) {
	builder := r.sb.Select(sessionColumns...).From(sessionTable)
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.OrderBy("start_year ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	var sessions []*models.AcademicSession
	err = r.readTx(ctx, func(tx *sql.Tx) error {
		var err error
		sessions, err = scanSQLiteSessions(ctx, tx, query, args)
		if err != nil {
			logger.Error().Err(err).Msg("Error listing sessions")
			return err
		}
		return r.attachLogs(ctx, tx, sessions)
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// scanSQLiteSessions drains the rows before returning so the connection is
// free for the follow-up log query.
func scanSQLiteSessions(ctx context.Context, tx *sql.Tx, query string, args []interface{}) ([]*models.AcademicSession, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.AcademicSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *SQLiteSessionStore) attachLogs(ctx context.Context, tx *sql.Tx, sessions []*models.AcademicSession) error {
	if len(sessions) == 0 {
		return nil
	}
	ids, byID := indexSessions(sessions)

	query, args, err := r.sb.Select(promotionLogColumns...).
		From(promotionLogTable).
		Where(squirrel.Eq{"session_id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build promotion log query: %w", err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
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
func (r *SQLiteSessionStore) Update(ctx context.Context, session *models.AcademicSession, entry *models.PromotionLogEntry) error {
	if err := session.Validate(); err != nil {
		return err
	}
	expected := session.Version

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := r.sb.Update(sessionTable).
		SetMap(sessionUpdateMap(session, expected+1)).
		Where(squirrel.Eq{"id": session.ID, "version": expected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update session query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if isSQLiteConstraint(err, "CHECK") {
			return apperrors.NewValidationError("session violates a stored invariant")
		}
		logger.Error().Err(err).Str("sessionID", session.ID).Msg("Error executing update session query")
		return fmt.Errorf("error updating session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM "+sessionTable+" WHERE id = ?)", session.ID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking session existence: %w", err)
		}
		if !exists {
			return apperrors.ErrSessionNotFound
		}
		return apperrors.NewConcurrencyConflictError("session was modified by another request; re-read it and decide again").
			WithDetails(map[string]interface{}{"sessionId": session.ID})
	}

	if entry != nil {
		query, args, err = r.sb.Insert(promotionLogTable).
			Columns(promotionLogColumns...).
			Values(promotionLogValues(session.ID, entry)...).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build promotion log insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("error appending promotion log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	session.Version = expected + 1
	if entry != nil {
		session.PromotionLog = append(session.PromotionLog, *entry)
	}
	return nil
}

// SQLiteDirectory is the institute/department directory for embedded mode
type SQLiteDirectory struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewSQLiteDirectory creates a directory over db
func NewSQLiteDirectory(db *sql.DB) *SQLiteDirectory {
	return &SQLiteDirectory{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (d *SQLiteDirectory) selectDepartments() squirrel.SelectBuilder {
	return d.sb.Select(departmentColumns...).
		From("departments d").
		Join("institutes i ON i.id = d.institute_id")
}

// GetByID retrieves a department with its institute
func (d *SQLiteDirectory) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	query, args, err := d.selectDepartments().Where(squirrel.Eq{"d.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get department query: %w", err)
	}

	department, err := scanDepartment(d.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return department, nil
}

// GetAll retrieves all departments
func (d *SQLiteDirectory) GetAll(ctx context.Context) ([]*models.Department, error) {
	query, args, err := d.selectDepartments().OrderBy("d.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all departments query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying departments: %w", err)
	}
	defer rows.Close()

	departments := []*models.Department{}
	for rows.Next() {
		department, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning department row: %w", err)
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

// CreateInstitute inserts an institute and sets its ID
func (d *SQLiteDirectory) CreateInstitute(ctx context.Context, institute *models.Institute) error {
	query, args, err := d.sb.Insert("institutes").
		Columns("name", "code").
		Values(institute.Name, institute.Code).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create institute query: %w", err)
	}

	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isSQLiteConstraint(err, "UNIQUE") {
			return apperrors.ErrInstituteAlreadyExists
		}
		return fmt.Errorf("error creating institute: %w", err)
	}
	institute.ID, err = result.LastInsertId()
	return err
}

// CreateDepartment inserts a department and sets its ID
func (d *SQLiteDirectory) CreateDepartment(ctx context.Context, department *models.Department) error {
	query, args, err := d.sb.Insert("departments").
		Columns("institute_id", "name", "code").
		Values(department.InstituteID, department.Name, department.Code).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create department query: %w", err)
	}

	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case isSQLiteConstraint(err, "UNIQUE"):
			return apperrors.ErrDepartmentAlreadyExists
		case isSQLiteConstraint(err, "FOREIGN KEY"):
			return apperrors.ErrInstituteNotFound
		}
		return fmt.Errorf("error creating department: %w", err)
	}
	department.ID, err = result.LastInsertId()
	return err
}
