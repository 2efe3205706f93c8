package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, email, password_hash, name, class_name, section, roll_number, parent_id, created_at, updated_at`

func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (models.StudentAccount, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE lower(email) = lower($1)`
	return scanStudent(r.pool.QueryRow(ctx, query, email))
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (models.StudentAccount, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, id))
}

func (r *StudentRepository) ListByClass(ctx context.Context, className string, section string) ([]models.StudentAccount, error) {
	query := `SELECT ` + studentColumns + ` FROM students
		WHERE class_name = $1 AND section = $2
		ORDER BY roll_number ASC`

	rows, err := r.pool.Query(ctx, query, className, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []models.StudentAccount
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func scanStudent(row pgx.Row) (models.StudentAccount, error) {
	var student models.StudentAccount
	if err := row.Scan(
		&student.ID,
		&student.Email,
		&student.PasswordHash,
		&student.Name,
		&student.ClassName,
		&student.Section,
		&student.RollNumber,
		&student.ParentID,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.StudentAccount{}, ErrStudentNotFound
		}
		return models.StudentAccount{}, err
	}
	return student, nil
}
