package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
)

// UserRepository is the generic account store (admins, parents and
// teachers registered through signup).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, name, role, phone, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user models.GenericAccount) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, name, role, phone, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.Phone,
	)
	if _, ok := isUniqueViolation(err); ok {
		return ErrEmailExists
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.GenericAccount, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.GenericAccount, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func scanUser(row pgx.Row) (models.GenericAccount, error) {
	var user models.GenericAccount
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.GenericAccount{}, ErrUserNotFound
		}
		return models.GenericAccount{}, err
	}
	return user, nil
}
