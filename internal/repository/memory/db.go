// Package memory holds map-backed account and class assignment stores with
// the same lookup semantics and sentinel errors as the Postgres repositories.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
)

type DB struct {
	Users       *UserStore
	Students    *StudentStore
	Teachers    *TeacherStore
	Assignments *ClassAssignmentStore
}

func NewDB() *DB {
	db := &DB{
		Users:    &UserStore{table: newTable[models.GenericAccount]()},
		Students: &StudentStore{table: newTable[models.StudentAccount]()},
		Teachers: &TeacherStore{table: newTable[models.TeacherAccount]()},
	}
	db.Assignments = &ClassAssignmentStore{
		rows:          make(map[string]models.ClassAssignment),
		teacherExists: db.ownerExists,
	}
	return db
}

// ownerExists reports whether an assignment's teacher id belongs to the
// teacher store or the generic store.
func (db *DB) ownerExists(ctx context.Context, id string) (bool, error) {
	if ok, err := db.Teachers.Exists(ctx, id); err != nil || ok {
		return ok, err
	}
	return db.Users.Exists(ctx, id)
}

type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
