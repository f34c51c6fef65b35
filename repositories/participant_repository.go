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
	ErrParticipantNotFound          = errors.New("tournament participant not found")
	ErrParticipantTeamInvalid       = errors.New("participant team reference invalid")
	ErrParticipantTournamentInvalid = errors.New("participant tournament reference invalid")
)

type ParticipantRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, participants []*models.TournamentParticipant) error
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.TournamentParticipant, error)
	DeleteAll(ctx context.Context) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch inserts every row through the supplied executor. Callers that
// need all-or-nothing semantics pass the transaction owned by the service.
func (r *postgresParticipantRepository) CreateBatch(ctx context.Context, exec SQLExecutor, participants []*models.TournamentParticipant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_participants (id, tournament_id, team_id, registered_at)
		VALUES ($1, $2, $3, $4)`

	for _, p := range participants {
		if _, err := executor.ExecContext(ctx, query, p.ID, p.TournamentID, p.TeamID, p.RegisteredAt); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				switch pqErr.Constraint {
				case "tournament_participants_team_id_fkey":
					return ErrParticipantTeamInvalid
				case "tournament_participants_tournament_id_fkey":
					return ErrParticipantTournamentInvalid
				}
			}
			return fmt.Errorf("failed to create tournament participant: %w", err)
		}
	}
	return nil
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournament participants: %w", err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tournament_participants WHERE team_id = $1`
	if err := r.db.QueryRowContext(ctx, query, teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count team registrations: %w", err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.TournamentParticipant, error) {
	query := `
		SELECT id, tournament_id, team_id, registered_at
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY registered_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.TournamentParticipant, 0)
	for rows.Next() {
		var p models.TournamentParticipant
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.TeamID, &p.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

// DeleteAll is used by the seeder only.
func (r *postgresParticipantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tournament_participants`)
	return err
}
