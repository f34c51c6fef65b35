package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/pabobernando/confused-be/models"
	"github.com/pabobernando/confused-be/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxManager runs the function directly, without a database. The nil
// executor is fine because the fakes below ignore it.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	m.calls++
	return fn(nil)
}

type fakeTeamRepo struct {
	teams map[string]*models.Team // keyed by id

	// createConflicts makes the next N Create calls fail on the unique name.
	createConflicts int
	updateErr       error

	// raced appears in the store when the first conflict fires, imitating a
	// concurrent insert that the unique constraint exposed.
	raced *models.Team

	created     []string
	updated     []string
	lockedReads int
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[string]*models.Team)}
	for _, t := range teams {
		copied := *t
		repo.teams[t.ID] = &copied
	}
	return repo
}

func (r *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	if r.createConflicts > 0 {
		r.createConflicts--
		if r.raced != nil {
			copied := *r.raced
			r.teams[r.raced.ID] = &copied
			r.raced = nil
		}
		return repositories.ErrTeamNameConflict
	}
	for _, existing := range r.teams {
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	copied := *team
	r.teams[team.ID] = &copied
	r.created = append(r.created, team.ID)
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id string) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) GetByName(_ context.Context, _ repositories.SQLExecutor, name string) (*models.Team, error) {
	for _, team := range r.teams {
		if team.Name == name {
			copied := *team
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) GetByNameForUpdate(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Team, error) {
	r.lockedReads++
	return r.GetByName(ctx, exec, name)
}

func (r *fakeTeamRepo) List(_ context.Context) ([]models.Team, error) {
	out := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		out = append(out, *team)
	}
	return out, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	copied := *team
	r.teams[team.ID] = &copied
	r.updated = append(r.updated, team.ID)
	return nil
}

func (r *fakeTeamRepo) UpdatePaymentStatus(_ context.Context, id string, status models.PaymentStatus) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.PaymentStatus = status
	return nil
}

func (r *fakeTeamRepo) DeleteAll(_ context.Context) error {
	r.teams = make(map[string]*models.Team)
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[string]*models.Tournament

	createErr error
	updateErr error
	deleteErr error

	deleted []string
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[string]*models.Tournament)}
	for _, t := range tournaments {
		copied := *t
		repo.tournaments[t.ID] = &copied
	}
	return repo
}

func (r *fakeTournamentRepo) Create(_ context.Context, tournament *models.Tournament) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *tournament
	r.tournaments[tournament.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Tournament, error) {
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *tournament
	return &copied, nil
}

func (r *fakeTournamentRepo) GetWithParticipants(ctx context.Context, id string) (*models.Tournament, error) {
	return r.GetByID(ctx, nil, id)
}

func (r *fakeTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	out := make([]models.Tournament, 0, len(r.tournaments))
	for _, tournament := range r.tournaments {
		out = append(out, *tournament)
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, tournament *models.Tournament) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.tournaments[tournament.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	copied := *tournament
	r.tournaments[tournament.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeTournamentRepo) DeleteAll(_ context.Context) error {
	r.tournaments = make(map[string]*models.Tournament)
	return nil
}

type fakeParticipantRepo struct {
	participants []*models.TournamentParticipant

	createBatchErr error
}

func (r *fakeParticipantRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, participants []*models.TournamentParticipant) error {
	if r.createBatchErr != nil {
		return r.createBatchErr
	}
	r.participants = append(r.participants, participants...)
	return nil
}

func (r *fakeParticipantRepo) CountByTournament(_ context.Context, tournamentID string) (int, error) {
	count := 0
	for _, p := range r.participants {
		if p.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipantRepo) CountByTeam(_ context.Context, teamID string) (int, error) {
	count := 0
	for _, p := range r.participants {
		if p.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipantRepo) ListByTournament(_ context.Context, tournamentID string) ([]models.TournamentParticipant, error) {
	out := make([]models.TournamentParticipant, 0)
	for _, p := range r.participants {
		if p.TournamentID == tournamentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) DeleteAll(_ context.Context) error {
	r.participants = nil
	return nil
}

type fakeAdminRepo struct {
	admins map[string]*models.Admin // keyed by username
}

func newFakeAdminRepo(admins ...*models.Admin) *fakeAdminRepo {
	repo := &fakeAdminRepo{admins: make(map[string]*models.Admin)}
	for _, a := range admins {
		copied := *a
		repo.admins[a.Username] = &copied
	}
	return repo
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	if _, ok := r.admins[admin.Username]; ok {
		return repositories.ErrAdminUsernameConflict
	}
	copied := *admin
	r.admins[admin.Username] = &copied
	return nil
}

func (r *fakeAdminRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	admin, ok := r.admins[username]
	if !ok {
		return nil, repositories.ErrAdminNotFound
	}
	copied := *admin
	return &copied, nil
}

func (r *fakeAdminRepo) DeleteAll(_ context.Context) error {
	r.admins = make(map[string]*models.Admin)
	return nil
}
