package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrAssignmentNotFound = errors.New("class assignment not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrHomeroomTaken      = errors.New("class already has a homeroom teacher")
)

const (
	uniqueViolation = "23505"

	homeroomConstraint = "class_assignments_homeroom_key"
)

func isUniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr, true
	}
	return nil, false
}
