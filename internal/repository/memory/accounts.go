package memory

import (
	"context"
	"time"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/repository"
)

type UserStore struct {
	table *table[models.GenericAccount]
}

func (s *UserStore) Create(_ context.Context, user models.GenericAccount) error {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	for _, row := range s.table.rows {
		if normalizeEmail(row.Email) == normalizeEmail(user.Email) {
			return repository.ErrEmailExists
		}
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.table.rows[user.ID] = user
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (models.GenericAccount, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	for _, row := range s.table.rows {
		if normalizeEmail(row.Email) == normalizeEmail(email) {
			return row, nil
		}
	}
	return models.GenericAccount{}, repository.ErrUserNotFound
}

func (s *UserStore) GetByID(_ context.Context, id string) (models.GenericAccount, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	if row, ok := s.table.rows[id]; ok {
		return row, nil
	}
	return models.GenericAccount{}, repository.ErrUserNotFound
}

func (s *UserStore) Exists(_ context.Context, id string) (bool, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	_, ok := s.table.rows[id]
	return ok, nil
}

func (s *UserStore) UpdateRole(_ context.Context, id string, role models.Role) error {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	row, ok := s.table.rows[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	row.Role = role
	row.UpdatedAt = time.Now()
	s.table.rows[id] = row
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	if _, ok := s.table.rows[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.table.rows, id)
	return nil
}

type StudentStore struct {
	table *table[models.StudentAccount]
}

// Put inserts or replaces a student record. Email uniqueness is enforced
// within this store only.
func (s *StudentStore) Put(_ context.Context, student models.StudentAccount) error {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	for id, row := range s.table.rows {
		if id != student.ID && normalizeEmail(row.Email) == normalizeEmail(student.Email) {
			return repository.ErrEmailExists
		}
	}
	s.table.rows[student.ID] = student
	return nil
}

func (s *StudentStore) FindByEmail(_ context.Context, email string) (models.StudentAccount, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	for _, row := range s.table.rows {
		if normalizeEmail(row.Email) == normalizeEmail(email) {
			return row, nil
		}
	}
	return models.StudentAccount{}, repository.ErrStudentNotFound
}

func (s *StudentStore) GetByID(_ context.Context, id string) (models.StudentAccount, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	if row, ok := s.table.rows[id]; ok {
		return row, nil
	}
	return models.StudentAccount{}, repository.ErrStudentNotFound
}

func (s *StudentStore) ListByClass(_ context.Context, className string, section string) ([]models.StudentAccount, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	var students []models.StudentAccount
	for _, row := range s.table.rows {
		if row.ClassName == className && row.Section == section {
			students = append(students, row)
		}
	}
	sortStudents(students)
	return students, nil
}

func (s *StudentStore) Delete(_ context.Context, id string) error {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	if _, ok := s.table.rows[id]; !ok {
		return repository.ErrStudentNotFound
	}
	delete(s.table.rows, id)
	return nil
}

type TeacherStore struct {
	table *table[models.TeacherAccount]
}

func (s *TeacherStore) Put(_ context.Context, teacher models.TeacherAccount) error {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	for id, row := range s.table.rows {
		if id != teacher.ID && normalizeEmail(row.Email) == normalizeEmail(teacher.Email) {
			return repository.ErrEmailExists
		}
	}
	s.table.rows[teacher.ID] = teacher
	return nil
}

func (s *TeacherStore) FindByEmail(_ context.Context, email string) (models.TeacherAccount, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	for _, row := range s.table.rows {
		if normalizeEmail(row.Email) == normalizeEmail(email) {
			return row, nil
		}
	}
	return models.TeacherAccount{}, repository.ErrTeacherNotFound
}

func (s *TeacherStore) GetByID(_ context.Context, id string) (models.TeacherAccount, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	if row, ok := s.table.rows[id]; ok {
		return row, nil
	}
	return models.TeacherAccount{}, repository.ErrTeacherNotFound
}

func (s *TeacherStore) Exists(_ context.Context, id string) (bool, error) {
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()

	_, ok := s.table.rows[id]
	return ok, nil
}

func (s *TeacherStore) Delete(_ context.Context, id string) error {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	if _, ok := s.table.rows[id]; !ok {
		return repository.ErrTeacherNotFound
	}
	delete(s.table.rows, id)
	return nil
}
