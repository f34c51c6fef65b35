package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/pabobernando/confused-be/models"
	"github.com/pabobernando/confused-be/realtime"
	"github.com/pabobernando/confused-be/repositories"
	"github.com/pabobernando/confused-be/storage"
)

// UpdateTeamInput carries the optional fields of a partial team update.
// A nil field means "leave unchanged", not "set to zero value".
type UpdateTeamInput struct {
	Name    *string   `json:"name"`
	Contact *string   `json:"contact"`
	Logo    *string   `json:"logo"`
	Players *[]string `json:"player"`
}

type TeamService interface {
	GetTeamByID(ctx context.Context, id string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	UpdateTeam(ctx context.Context, id string, input UpdateTeamInput) (*models.Team, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	hub      *realtime.Hub
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader, hub *realtime.Hub, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		uploader: uploader,
		hub:      hub,
		logger:   logger,
	}
}

func (s *teamService) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// UpdateTeam merges the supplied fields into the stored row. A rename is
// re-checked against the unique name before applying.
func (s *teamService) UpdateTeam(ctx context.Context, id string, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.GetTeamByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != team.Name {
		if utf8.RuneCountInString(*input.Name) < minTeamNameLength {
			return nil, fmt.Errorf("%w: name must be at least %d characters", ErrValidationFailed, minTeamNameLength)
		}
		existing, err := s.teamRepo.GetByName(ctx, nil, *input.Name)
		if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("failed to check team name uniqueness: %w", err)
		}
		if existing != nil && existing.ID != team.ID {
			return nil, ErrTeamNameConflict
		}
		team.Name = *input.Name
	}
	if input.Contact != nil {
		team.Contact = *input.Contact
	}
	if input.Logo != nil {
		logo, err := resolveMediaPayload(ctx, s.uploader, "logos", team.Name, *input.Logo)
		if err != nil {
			return nil, err
		}
		team.Logo = logo
	}
	if input.Players != nil {
		team.Players = *input.Players
	}

	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

func (s *teamService) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Team, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: payment_status must be one of PENDING, PAID, FAILED", ErrValidationFailed)
	}

	team, err := s.GetTeamByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdatePaymentStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	team.PaymentStatus = status

	s.logger.Info("team payment status updated",
		slog.String("team_id", team.ID),
		slog.String("payment_status", string(status)),
	)

	if s.hub != nil {
		s.hub.Broadcast(realtime.EventPaymentUpdated, map[string]interface{}{
			"teamId":        team.ID,
			"teamName":      team.Name,
			"paymentStatus": status,
		})
	}

	return team, nil
}
