package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pabobernando/confused-be/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error)
	GetByNameForUpdate(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, exec SQLExecutor, team *models.Team) error
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
	DeleteAll(ctx context.Context) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (id, name, contact, logo, players, payment_status, payment_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		team.ID,
		team.Name,
		team.Contact,
		team.Logo,
		team.Players,
		team.PaymentStatus,
		team.PaymentQuantity,
	).Scan(&team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_name_key" {
				return ErrTeamNameConflict
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `
		SELECT id, name, contact, logo, players, payment_status, payment_quantity, created_at
		FROM teams
		WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

// GetByName resolves a team by its unique name. The executor lets the lookup
// run inside the registration transaction.
func (r *postgresTeamRepository) GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, contact, logo, players, payment_status, payment_quantity, created_at
		FROM teams
		WHERE name = $1`
	return r.scanTeam(executor.QueryRowContext(ctx, query, name))
}

// GetByNameForUpdate locks the row for the rest of the transaction. A
// concurrent read-modify-write of payment_quantity waits here instead of
// overwriting the other transaction's increment.
func (r *postgresTeamRepository) GetByNameForUpdate(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, contact, logo, players, payment_status, payment_quantity, created_at
		FROM teams
		WHERE name = $1
		FOR UPDATE`
	return r.scanTeam(executor.QueryRowContext(ctx, query, name))
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `
		SELECT id, name, contact, logo, players, payment_status, payment_quantity, created_at
		FROM teams
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Contact,
			&team.Logo,
			&team.Players,
			&team.PaymentStatus,
			&team.PaymentQuantity,
			&team.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE teams SET
			name = $1,
			contact = $2,
			logo = $3,
			players = $4,
			payment_status = $5,
			payment_quantity = $6
		WHERE id = $7`

	result, err := executor.ExecContext(ctx, query,
		team.Name,
		team.Contact,
		team.Logo,
		team.Players,
		team.PaymentStatus,
		team.PaymentQuantity,
		team.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_name_key" {
				return ErrTeamNameConflict
			}
		}
		return fmt.Errorf("failed to update team: %w", err)
	}

	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	query := `UPDATE teams SET payment_status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update team payment status: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// DeleteAll is used by the seeder only.
func (r *postgresTeamRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM teams`)
	return err
}

func (r *postgresTeamRepository) scanTeam(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Contact,
		&team.Logo,
		&team.Players,
		&team.PaymentStatus,
		&team.PaymentQuantity,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return team, nil
}
