package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/identity"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/ids"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/repository"
)

var (
	ErrAssignmentNotFound = repository.ErrAssignmentNotFound
	ErrHomeroomTaken      = repository.ErrHomeroomTaken
)

type AssignmentStore interface {
	Create(ctx context.Context, assignment models.ClassAssignment) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassAssignment, error)
	IsHomeroomTeacher(ctx context.Context, teacherID string, className string, section string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}

type StudentDirectory interface {
	ListByClass(ctx context.Context, className string, section string) ([]models.StudentAccount, error)
}

type ClassService struct {
	assignments AssignmentStore
	students    StudentDirectory
	identities  identity.Chain
	log         zerolog.Logger
}

func NewClassService(assignments AssignmentStore, students StudentDirectory, identities identity.Chain, log zerolog.Logger) *ClassService {
	return &ClassService{
		assignments: assignments,
		students:    students,
		identities:  identities,
		log:         log,
	}
}

type AssignInput struct {
	TeacherID  string
	ClassName  string
	Section    string
	Subject    string
	IsHomeroom bool
}

func (s *ClassService) Assign(ctx context.Context, input AssignInput) (models.ClassAssignment, error) {
	input.TeacherID = strings.TrimSpace(input.TeacherID)
	input.ClassName = strings.TrimSpace(input.ClassName)
	input.Section = strings.ToUpper(strings.TrimSpace(input.Section))
	input.Subject = strings.TrimSpace(input.Subject)
	if input.TeacherID == "" || input.ClassName == "" || input.Section == "" || input.Subject == "" {
		return models.ClassAssignment{}, fmt.Errorf("%w: teacherId, className, section and subject are required", ErrInvalidInput)
	}

	isTeacher, err := s.isTeacher(ctx, input.TeacherID)
	if err != nil {
		return models.ClassAssignment{}, err
	}
	if !isTeacher {
		return models.ClassAssignment{}, fmt.Errorf("%w: %s is not a teacher", ErrInvalidInput, input.TeacherID)
	}

	assignment := models.ClassAssignment{
		ID:         ids.New(),
		TeacherID:  input.TeacherID,
		ClassName:  input.ClassName,
		Section:    input.Section,
		Subject:    input.Subject,
		IsHomeroom: input.IsHomeroom,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return models.ClassAssignment{}, err
	}

	s.log.Info().
		Str("assignment_id", assignment.ID).
		Str("teacher_id", assignment.TeacherID).
		Bool("homeroom", assignment.IsHomeroom).
		Msg("class assigned")
	return assignment, nil
}

// isTeacher accepts teacher-store accounts and generic accounts whose stored
// role is TEACHER.
func (s *ClassService) isTeacher(ctx context.Context, id string) (bool, error) {
	for _, origin := range []models.Origin{models.OriginTeacher, models.OriginGeneric} {
		ident, err := s.identities.FindByOrigin(ctx, origin, id)
		if err == nil {
			return ident.Role == models.RoleTeacher, nil
		}
		if !errors.Is(err, identity.ErrNotFound) {
			return false, err
		}
	}
	return false, nil
}

func (s *ClassService) ForTeacher(ctx context.Context, teacherID string) ([]models.ClassAssignment, error) {
	return s.assignments.ListByTeacher(ctx, teacherID)
}

func (s *ClassService) IsHomeroomTeacher(ctx context.Context, teacherID string, className string, section string) (bool, error) {
	return s.assignments.IsHomeroomTeacher(ctx, teacherID, className, strings.ToUpper(section))
}

func (s *ClassService) Roster(ctx context.Context, className string, section string) ([]models.StudentAccount, error) {
	return s.students.ListByClass(ctx, className, strings.ToUpper(section))
}

func (s *ClassService) Unassign(ctx context.Context, id string) error {
	return s.assignments.DeleteByID(ctx, id)
}
