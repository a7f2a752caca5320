package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taskboardhq/taskboard/internal/model"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, password_hash, created_at`

	row := r.db.QueryRowContext(ctx, query, user.ID, user.Email, user.Name, user.PasswordHash)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)`

	row := r.db.QueryRowContext(ctx, query, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	return scanUser(row)
}

func scanUser(row scannable) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

// ensure compile-time interface compliance
var _ UserRepository = (*PostgresUserRepository)(nil)
