package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pabobernando/confused-be/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error)
	GetWithParticipants(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (id, title, poster, location, description, date, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Title, t.Poster, t.Location, t.Description, t.Date, t.Price,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, title, poster, location, description, date, price, created_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Poster, &t.Location, &t.Description, &t.Date, &t.Price, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament: %w", err)
	}
	return t, nil
}

// GetWithParticipants returns the tournament with the distinct teams that
// hold at least one registration slot for it.
func (r *postgresTournamentRepository) GetWithParticipants(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := r.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT DISTINCT ON (tm.id)
			tm.id, tm.name, tm.contact, tm.logo, tm.players, tm.payment_status, tm.payment_quantity, tm.created_at
		FROM tournament_participants tp
		JOIN teams tm ON tp.team_id = tm.id
		WHERE tp.tournament_id = $1
		ORDER BY tm.id, tm.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament participant teams: %w", err)
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
			return nil, fmt.Errorf("failed to scan participant team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	t.Participants = teams
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	query := `
		SELECT id, title, poster, location, description, date, price, created_at
		FROM tournaments
		ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Poster, &t.Location, &t.Description, &t.Date, &t.Price, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			title = $1,
			poster = $2,
			location = $3,
			description = $4,
			date = $5,
			price = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		t.Title, t.Poster, t.Location, t.Description, t.Date, t.Price, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// DeleteAll is used by the seeder only.
func (r *postgresTournamentRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tournaments`)
	return err
}
