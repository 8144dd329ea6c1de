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

var departmentColumns = []string{
	"d.id", "d.institute_id", "d.name", "d.code",
	"i.id", "i.name", "i.code",
}

// DepartmentRepository reads the institute/department directory from PostgreSQL
type DepartmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanDepartment(row rowScanner) (*models.Department, error) {
	department := &models.Department{Institute: &models.Institute{}}
	err := row.Scan(
		&department.ID,
		&department.InstituteID,
		&department.Name,
		&department.Code,
		&department.Institute.ID,
		&department.Institute.Name,
		&department.Institute.Code,
	)
	if err != nil {
		return nil, err
	}
	return department, nil
}

func (r *DepartmentRepository) selectDepartments() squirrel.SelectBuilder {
	return r.sb.Select(departmentColumns...).
		From("departments d").
		Join("institutes i ON i.id = d.institute_id")
}

// GetByID retrieves a department with its institute
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	sql, args, err := r.selectDepartments().Where(squirrel.Eq{"d.id": id}).Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get department SQL")
		return nil, fmt.Errorf("failed to build get department query: %w", err)
	}

	department, err := scanDepartment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		logger.Error().Err(err).Int64("departmentID", id).Msg("Error scanning department row")
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return department, nil
}

// GetAll retrieves all departments
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	sql, args, err := r.selectDepartments().OrderBy("d.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all departments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all departments query")
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department rows: %w", err)
	}
	return departments, nil
}

// CreateInstitute inserts an institute and sets its ID
func (r *DepartmentRepository) CreateInstitute(ctx context.Context, institute *models.Institute) error {
	sql, args, err := r.sb.Insert("institutes").
		Columns("name", "code").
		Values(institute.Name, institute.Code).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create institute query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&institute.ID); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrInstituteAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create institute query")
		return fmt.Errorf("error creating institute: %w", err)
	}
	return nil
}

// CreateDepartment inserts a department and sets its ID
func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	sql, args, err := r.sb.Insert("departments").
		Columns("institute_id", "name", "code").
		Values(department.InstituteID, department.Name, department.Code).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create department query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&department.ID); err != nil {
		switch {
		case dberrors.IsDuplicateKeyError(err):
			return apperrors.ErrDepartmentAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrInstituteNotFound
		}
		logger.Error().Err(err).Msg("Error executing create department query")
		return fmt.Errorf("error creating department: %w", err)
	}
	return nil
}
