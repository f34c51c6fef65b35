package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pabobernando/confused-be/models"
	"github.com/lib/pq"
)

var (
	ErrAdminNotFound         = errors.New("admin not found")
	ErrAdminUsernameConflict = errors.New("admin username conflict")
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	DeleteAll(ctx context.Context) error
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		admin.ID,
		admin.Username,
		admin.PasswordHash,
	).Scan(&admin.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "admins_username_key" {
				return ErrAdminUsernameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE username = $1`

	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

// DeleteAll is used by the seeder only.
func (r *postgresAdminRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admins`)
	return err
}
