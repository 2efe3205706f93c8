package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
)

type ClassAssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewClassAssignmentRepository(pool *pgxpool.Pool) *ClassAssignmentRepository {
	return &ClassAssignmentRepository{pool: pool}
}

func (r *ClassAssignmentRepository) Create(ctx context.Context, assignment models.ClassAssignment) error {
	// class_assignments_homeroom_key is a partial unique index on
	// (class_name, section) WHERE is_homeroom.
	const query = `
		INSERT INTO class_assignments (
			id, teacher_id, class_name, section, subject, is_homeroom, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		assignment.ID,
		assignment.TeacherID,
		assignment.ClassName,
		assignment.Section,
		assignment.Subject,
		assignment.IsHomeroom,
	)
	if pgErr, ok := isUniqueViolation(err); ok && pgErr.ConstraintName == homeroomConstraint {
		return ErrHomeroomTaken
	}
	return err
}

func (r *ClassAssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassAssignment, error) {
	const query = `
		SELECT id, teacher_id, class_name, section, subject, is_homeroom, created_at
		FROM class_assignments
		WHERE teacher_id = $1
		ORDER BY class_name, section, subject
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.ClassAssignment
	for rows.Next() {
		var a models.ClassAssignment
		if err := rows.Scan(
			&a.ID,
			&a.TeacherID,
			&a.ClassName,
			&a.Section,
			&a.Subject,
			&a.IsHomeroom,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *ClassAssignmentRepository) IsHomeroomTeacher(ctx context.Context, teacherID string, className string, section string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM class_assignments
			WHERE teacher_id = $1 AND class_name = $2 AND section = $3 AND is_homeroom
		)
	`
	var ok bool
	err := r.pool.QueryRow(ctx, query, teacherID, className, section).Scan(&ok)
	return ok, err
}

func (r *ClassAssignmentRepository) DeleteByID(ctx context.Context, id string) error {
	const query = `DELETE FROM class_assignments WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// DeleteOrphaned removes assignments whose teacher id exists in neither the
// teachers nor the users table.
func (r *ClassAssignmentRepository) DeleteOrphaned(ctx context.Context) (int64, error) {
	const query = `
		DELETE FROM class_assignments ca
		WHERE NOT EXISTS (SELECT 1 FROM teachers t WHERE t.id = ca.teacher_id)
		  AND NOT EXISTS (SELECT 1 FROM users u WHERE u.id = ca.teacher_id)
	`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
