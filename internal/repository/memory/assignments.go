package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/repository"
)

type ClassAssignmentStore struct {
	mu   sync.RWMutex
	rows map[string]models.ClassAssignment

	teacherExists func(ctx context.Context, id string) (bool, error)
}

func (s *ClassAssignmentStore) Create(_ context.Context, assignment models.ClassAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if assignment.IsHomeroom {
		for _, row := range s.rows {
			if row.IsHomeroom && row.ClassName == assignment.ClassName && row.Section == assignment.Section {
				return repository.ErrHomeroomTaken
			}
		}
	}
	assignment.CreatedAt = time.Now()
	s.rows[assignment.ID] = assignment
	return nil
}

func (s *ClassAssignmentStore) ListByTeacher(_ context.Context, teacherID string) ([]models.ClassAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var assignments []models.ClassAssignment
	for _, row := range s.rows {
		if row.TeacherID == teacherID {
			assignments = append(assignments, row)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.ClassName != b.ClassName {
			return a.ClassName < b.ClassName
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		return a.Subject < b.Subject
	})
	return assignments, nil
}

func (s *ClassAssignmentStore) IsHomeroomTeacher(_ context.Context, teacherID string, className string, section string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.rows {
		if row.IsHomeroom && row.TeacherID == teacherID && row.ClassName == className && row.Section == section {
			return true, nil
		}
	}
	return false, nil
}

func (s *ClassAssignmentStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return repository.ErrAssignmentNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *ClassAssignmentStore) DeleteOrphaned(ctx context.Context) (int64, error) {
	if s.teacherExists == nil {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, row := range s.rows {
		ok, err := s.teacherExists(ctx, row.TeacherID)
		if err != nil {
			return removed, err
		}
		if !ok {
			delete(s.rows, id)
			removed++
		}
	}
	return removed, nil
}

func sortStudents(students []models.StudentAccount) {
	sort.Slice(students, func(i, j int) bool {
		return students[i].RollNumber < students[j].RollNumber
	})
}
