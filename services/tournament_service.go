package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pabobernando/confused-be/models"
	"github.com/pabobernando/confused-be/repositories"
	"github.com/pabobernando/confused-be/storage"
	"github.com/google/uuid"
)

type CreateTournamentInput struct {
	Title       string `json:"title"`
	Poster      string `json:"poster"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Price       string `json:"price"`
}

// UpdateTournamentInput carries the optional fields of a partial update.
// A nil field means "leave unchanged".
type UpdateTournamentInput struct {
	Title       *string `json:"title"`
	Poster      *string `json:"poster"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Price       *string `json:"price"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	UpdateTournament(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id string) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	if input.Poster == "" {
		return nil, fmt.Errorf("%w: poster field is required", ErrValidationFailed)
	}
	date, err := parseTournamentDate(input.Date)
	if err != nil {
		return nil, err
	}

	poster, err := resolveMediaPayload(ctx, s.uploader, "posters", input.Title, input.Poster)
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Poster:      poster,
		Location:    input.Location,
		Description: input.Description,
		Date:        date,
		Price:       input.Price,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.String("title", tournament.Title),
	)
	return tournament, nil
}

// GetTournamentByID returns the tournament together with the teams that hold
// registration slots for it.
func (s *tournamentService) GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetWithParticipants(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	if input.Title != nil {
		tournament.Title = *input.Title
	}
	if input.Poster != nil {
		poster, err := resolveMediaPayload(ctx, s.uploader, "posters", tournament.Title, *input.Poster)
		if err != nil {
			return nil, err
		}
		tournament.Poster = poster
	}
	if input.Location != nil {
		tournament.Location = *input.Location
	}
	if input.Description != nil {
		tournament.Description = *input.Description
	}
	if input.Date != nil {
		date, err := parseTournamentDate(*input.Date)
		if err != nil {
			return nil, err
		}
		tournament.Date = date
	}
	if input.Price != nil {
		tournament.Price = *input.Price
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return tournament, nil
}

// DeleteTournament removes the tournament only when no registration slot
// references it.
func (s *tournamentService) DeleteTournament(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	count, err := s.participantRepo.CountByTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count tournament participants: %w", err)
	}
	if count > 0 {
		return nil, ErrTournamentHasParticipants
	}

	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to delete tournament: %w", err)
	}

	s.logger.Info("tournament deleted",
		slog.String("tournament_id", tournament.ID),
		slog.String("title", tournament.Title),
	)
	return tournament, nil
}

func parseTournamentDate(value string) (time.Time, error) {
	date, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format, use ISO 8601 (e.g. 2025-09-01T10:00:00Z)", ErrValidationFailed)
	}
	return date, nil
}
