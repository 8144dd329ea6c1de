package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/academia/internal/app/models"
)

// SessionStore persists academic sessions. Implementations validate every
// session before writing it and apply writes with an optimistic version check.
type SessionStore interface {
	// Create stores a new session at version 1.
	Create(ctx context.Context, session *models.AcademicSession) error
	// GetByID returns apperrors.ErrSessionNotFound when no session has the ID.
	GetByID(ctx context.Context, id string) (*models.AcademicSession, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]*models.AcademicSession, error)
	// ListByInstitute lists every session of an institute; instituteID 0 lists all sessions.
	ListByInstitute(ctx context.Context, instituteID int64) ([]*models.AcademicSession, error)
	// Update writes session if the stored version still equals session.Version,
	// appending entry to the promotion log in the same transaction when it is
	// not nil. On success session carries the new version and log.
	Update(ctx context.Context, session *models.AcademicSession, entry *models.PromotionLogEntry) error
}

// DepartmentDirectory resolves departments owned by the external directory.
type DepartmentDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	GetAll(ctx context.Context) ([]*models.Department, error)
}

// DirectoryWriter is implemented by directories that can be seeded.
type DirectoryWriter interface {
	CreateInstitute(ctx context.Context, institute *models.Institute) error
	CreateDepartment(ctx context.Context, department *models.Department) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Sessions    SessionStore
	Departments DepartmentDirectory
	Directory   DirectoryWriter
	closeFn     func() error
}

// NewRepositories initializes the PostgreSQL repositories. Closing the
// repositories closes db.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	departments := NewDepartmentRepository(db)
	return &Repositories{
		Sessions:    NewSessionRepository(db),
		Departments: departments,
		Directory:   departments,
		closeFn: func() error {
			db.Close()
			return nil
		},
	}
}

// NewMemoryRepositories initializes in-memory repositories
func NewMemoryRepositories() *Repositories {
	directory := NewMemoryDirectory()
	return &Repositories{
		Sessions:    NewMemorySessionStore(),
		Departments: directory,
		Directory:   directory,
	}
}

// Close releases resources owned by the repositories, if any.
func (r *Repositories) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return nil
}
