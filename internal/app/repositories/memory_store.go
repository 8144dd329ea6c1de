package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/pkg/apperrors"
)

// MemorySessionStore keeps sessions in process memory. Values are cloned on
// the way in and out so callers never share state with the store.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.AcademicSession
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.AcademicSession)}
}

// Create stores a new session at version 1
func (s *MemorySessionStore) Create(_ context.Context, session *models.AcademicSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		return apperrors.ErrSessionAlreadyExists
	}
	session.Version = 1
	if session.PromotionLog == nil {
		session.PromotionLog = []models.PromotionLogEntry{}
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

// GetByID returns a copy of the stored session
func (s *MemorySessionStore) GetByID(_ context.Context, id string) (*models.AcademicSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return stored.Clone(), nil
}

// ListByDepartment returns copies of the department's sessions
func (s *MemorySessionStore) ListByDepartment(_ context.Context, departmentID int64) ([]*models.AcademicSession, error) {
	return s.filter(func(session *models.AcademicSession) bool {
		return session.DepartmentID == departmentID
	}), nil
}

// ListByInstitute returns copies of the institute's sessions, or all for 0
func (s *MemorySessionStore) ListByInstitute(_ context.Context, instituteID int64) ([]*models.AcademicSession, error) {
	return s.filter(func(session *models.AcademicSession) bool {
		return instituteID == 0 || session.InstituteID == instituteID
	}), nil
}

func (s *MemorySessionStore) filter(keep func(*models.AcademicSession) bool) []*models.AcademicSession {
	s.mu.RLock()
	result := []*models.AcademicSession{}
	for _, stored := range s.sessions {
		if keep(stored) {
			result = append(result, stored.Clone())
		}
	}
	s.mu.RUnlock()

	sortSessions(result)
	return result
}

// Update applies the write if the stored version equals session.Version
func (s *MemorySessionStore) Update(_ context.Context, session *models.AcademicSession, entry *models.PromotionLogEntry) error {
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[session.ID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if stored.Version != session.Version {
		return apperrors.NewConcurrencyConflictError("session was modified by another request; re-read it and decide again").
			WithDetails(map[string]interface{}{"sessionId": session.ID})
	}

	next := session.Clone()
	// Identity, ownership and the audit trail come from the stored copy.
	next.DepartmentID = stored.DepartmentID
	next.InstituteID = stored.InstituteID
	next.StartYear = stored.StartYear
	next.EndYear = stored.EndYear
	next.CreatedBy = stored.CreatedBy
	next.CreatedAt = stored.CreatedAt
	next.PromotionLog = append(stored.Clone().PromotionLog, logEntries(entry)...)
	next.Version = stored.Version + 1
	s.sessions[session.ID] = next

	session.Version = next.Version
	session.PromotionLog = next.Clone().PromotionLog
	return nil
}

func logEntries(entry *models.PromotionLogEntry) []models.PromotionLogEntry {
	if entry == nil {
		return nil
	}
	return []models.PromotionLogEntry{*entry}
}

// sortSessions orders sessions like the SQL stores: start year, then ID.
func sortSessions(sessions []*models.AcademicSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartYear != sessions[j].StartYear {
			return sessions[i].StartYear < sessions[j].StartYear
		}
		return sessions[i].ID < sessions[j].ID
	})
}

// MemoryDirectory is an in-memory institute/department directory
type MemoryDirectory struct {
	mu              sync.RWMutex
	institutes      map[int64]*models.Institute
	departments     map[int64]*models.Department
	nextInstituteID int64
	nextDeptID      int64
}

// NewMemoryDirectory creates an empty directory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		institutes:  make(map[int64]*models.Institute),
		departments: make(map[int64]*models.Department),
	}
}

// CreateInstitute stores an institute and assigns its ID
func (d *MemoryDirectory) CreateInstitute(_ context.Context, institute *models.Institute) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.institutes {
		if strings.EqualFold(existing.Code, institute.Code) || existing.Name == institute.Name {
			return apperrors.ErrInstituteAlreadyExists
		}
	}
	d.nextInstituteID++
	institute.ID = d.nextInstituteID
	stored := *institute
	d.institutes[stored.ID] = &stored
	return nil
}

// CreateDepartment stores a department and assigns its ID
func (d *MemoryDirectory) CreateDepartment(_ context.Context, department *models.Department) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.institutes[department.InstituteID]; !ok {
		return apperrors.ErrInstituteNotFound
	}
	for _, existing := range d.departments {
		if strings.EqualFold(existing.Code, department.Code) {
			return apperrors.ErrDepartmentAlreadyExists
		}
	}
	d.nextDeptID++
	department.ID = d.nextDeptID
	stored := *department
	stored.Institute = nil
	d.departments[stored.ID] = &stored
	return nil
}

// GetByID returns the department with its institute attached
func (d *MemoryDirectory) GetByID(_ context.Context, id int64) (*models.Department, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stored, ok := d.departments[id]
	if !ok {
		return nil, apperrors.ErrDepartmentNotFound
	}
	return d.withInstitute(stored), nil
}

// GetAll returns every department ordered by ID
func (d *MemoryDirectory) GetAll(_ context.Context) ([]*models.Department, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	departments := make([]*models.Department, 0, len(d.departments))
	for _, stored := range d.departments {
		departments = append(departments, d.withInstitute(stored))
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].ID < departments[j].ID })
	return departments, nil
}

func (d *MemoryDirectory) withInstitute(stored *models.Department) *models.Department {
	department := *stored
	if institute, ok := d.institutes[stored.InstituteID]; ok {
		copied := *institute
		department.Institute = &copied
	}
	return &department
}
