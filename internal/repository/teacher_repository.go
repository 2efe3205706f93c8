package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
)

type TeacherRepository struct {
	pool *pgxpool.Pool
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

const teacherColumns = `id, email, password_hash, name, employee_id, subject, phone, created_at, updated_at`

func (r *TeacherRepository) FindByEmail(ctx context.Context, email string) (models.TeacherAccount, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE lower(email) = lower($1)`
	return scanTeacher(r.pool.QueryRow(ctx, query, email))
}

func (r *TeacherRepository) GetByID(ctx context.Context, id string) (models.TeacherAccount, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`
	return scanTeacher(r.pool.QueryRow(ctx, query, id))
}

func scanTeacher(row pgx.Row) (models.TeacherAccount, error) {
	var teacher models.TeacherAccount
	if err := row.Scan(
		&teacher.ID,
		&teacher.Email,
		&teacher.PasswordHash,
		&teacher.Name,
		&teacher.EmployeeID,
		&teacher.Subject,
		&teacher.Phone,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TeacherAccount{}, ErrTeacherNotFound
		}
		return models.TeacherAccount{}, err
	}
	return teacher, nil
}
