package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/pabobernando/confused-be/models"
	"github.com/pabobernando/confused-be/realtime"
	"github.com/pabobernando/confused-be/repositories"
	"github.com/pabobernando/confused-be/storage"
	"github.com/google/uuid"
)

const (
	minRegistrationQuantity = 1
	maxRegistrationQuantity = 10
	minTeamNameLength       = 2
)

type RegisterInput struct {
	TournamentID string   `json:"tournamentId"`
	TeamName     string   `json:"teamName"`
	Contact      string   `json:"contact"`
	Logo         string   `json:"logo"`
	Players      []string `json:"players"`
	Quantity     int      `json:"quantity"`
}

type RegistrationResult struct {
	Team          *models.Team
	WasExisting   bool
	Registrations []models.TournamentParticipant
}

type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegistrationResult, error)
}

type registrationService struct {
	tx              TxManager
	teamRepo        repositories.TeamRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	uploader        storage.FileUploader
	hub             *realtime.Hub
	logger          *slog.Logger
}

func NewRegistrationService(
	tx TxManager,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	uploader storage.FileUploader,
	hub *realtime.Hub,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		tx:              tx,
		teamRepo:        teamRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		uploader:        uploader,
		hub:             hub,
		logger:          logger,
	}
}

// Register resolves the team by its unique name (creating it on first
// registration), adds the requested quantity to the team's cumulative
// payment quantity and creates one participant row per unit of quantity.
// The team mutation and the participant batch commit or roll back together.
func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*RegistrationResult, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	if _, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrRegistrationTournamentUnknown
		}
		return nil, fmt.Errorf("failed to check tournament: %w", err)
	}

	logo, err := resolveMediaPayload(ctx, s.uploader, "logos", input.TeamName, input.Logo)
	if err != nil {
		return nil, err
	}

	result, err := s.registerOnce(ctx, input, logo)
	if errors.Is(err, repositories.ErrTeamNameConflict) {
		// A concurrent request created the team between our lookup and
		// insert; the unique constraint aborted the transaction. One retry
		// resolves the now-existing team and takes the update path.
		result, err = s.registerOnce(ctx, input, logo)
	}
	if errors.Is(err, repositories.ErrTeamNameConflict) {
		return nil, ErrTeamNameConflict
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("team registered for tournament",
		slog.String("tournament_id", input.TournamentID),
		slog.String("team_id", result.Team.ID),
		slog.Int("quantity", input.Quantity),
		slog.Bool("existing_team", result.WasExisting),
	)

	if s.hub != nil {
		s.hub.Broadcast(realtime.EventRegistrationCreated, map[string]interface{}{
			"tournamentId": input.TournamentID,
			"teamId":       result.Team.ID,
			"teamName":     result.Team.Name,
			"quantity":     input.Quantity,
		})
	}

	return result, nil
}

func (s *registrationService) registerOnce(ctx context.Context, input RegisterInput, logo string) (*RegistrationResult, error) {
	var result RegistrationResult

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// The locking read serializes concurrent registrations of the same
		// team: the second transaction waits on the row and re-reads the
		// committed quantity before adding its own.
		team, err := s.teamRepo.GetByNameForUpdate(ctx, exec, input.TeamName)
		switch {
		case err == nil:
			// Contact and player list are replaced, the logo only when a new
			// one was supplied, and the quantity is added, never overwritten.
			// Payment status is untouched: registering is not paying.
			team.Contact = input.Contact
			team.Players = input.Players
			if logo != "" {
				team.Logo = logo
			}
			team.PaymentQuantity += input.Quantity
			if err := s.teamRepo.Update(ctx, exec, team); err != nil {
				return err
			}
			result.WasExisting = true

		case errors.Is(err, repositories.ErrTeamNotFound):
			team = &models.Team{
				ID:              uuid.NewString(),
				Name:            input.TeamName,
				Contact:         input.Contact,
				Logo:            logo,
				Players:         input.Players,
				PaymentStatus:   models.PaymentPending,
				PaymentQuantity: input.Quantity,
			}
			if err := s.teamRepo.Create(ctx, exec, team); err != nil {
				return err
			}
			result.WasExisting = false

		default:
			return fmt.Errorf("failed to resolve team by name: %w", err)
		}

		registeredAt := time.Now().UTC()
		participants := make([]*models.TournamentParticipant, 0, input.Quantity)
		for i := 0; i < input.Quantity; i++ {
			participants = append(participants, &models.TournamentParticipant{
				ID:           uuid.NewString(),
				TournamentID: input.TournamentID,
				TeamID:       team.ID,
				RegisteredAt: registeredAt,
			})
		}
		if err := s.participantRepo.CreateBatch(ctx, exec, participants); err != nil {
			if errors.Is(err, repositories.ErrParticipantTournamentInvalid) {
				return ErrRegistrationTournamentUnknown
			}
			return err
		}

		result.Team = team
		result.Registrations = make([]models.TournamentParticipant, 0, len(participants))
		for _, p := range participants {
			result.Registrations = append(result.Registrations, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func validateRegisterInput(input RegisterInput) error {
	if input.TournamentID == "" {
		return fmt.Errorf("%w: tournamentId is required", ErrValidationFailed)
	}
	if utf8.RuneCountInString(input.TeamName) < minTeamNameLength {
		return fmt.Errorf("%w: teamName must be at least %d characters", ErrValidationFailed, minTeamNameLength)
	}
	if input.Contact == "" {
		return fmt.Errorf("%w: contact is required", ErrValidationFailed)
	}
	if len(input.Players) == 0 {
		return fmt.Errorf("%w: players must not be empty", ErrValidationFailed)
	}
	if input.Quantity < minRegistrationQuantity || input.Quantity > maxRegistrationQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d",
			ErrValidationFailed, minRegistrationQuantity, maxRegistrationQuantity)
	}
	return nil
}
