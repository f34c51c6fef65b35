package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pabobernando/confused-be/models"
)

func newRegistrationFixture(teams ...*models.Team) (*fakeTxManager, *fakeTeamRepo, *fakeTournamentRepo, *fakeParticipantRepo, RegistrationService) {
	tx := &fakeTxManager{}
	teamRepo := newFakeTeamRepo(teams...)
	tournamentRepo := newFakeTournamentRepo(&models.Tournament{
		ID:    "t-1",
		Title: "Mobile Legends Cup",
		Date:  time.Now().Add(72 * time.Hour),
	})
	participantRepo := &fakeParticipantRepo{}
	svc := NewRegistrationService(tx, teamRepo, tournamentRepo, participantRepo, nil, nil, discardLogger())
	return tx, teamRepo, tournamentRepo, participantRepo, svc
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		TournamentID: "t-1",
		TeamName:     "RRQ Hoshi",
		Contact:      "081234567890",
		Players:      []string{"alpha", "beta", "gamma"},
		Quantity:     2,
	}
}

func TestRegisterCreatesNewTeam(t *testing.T) {
	_, teamRepo, _, participantRepo, svc := newRegistrationFixture()

	result, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if result.WasExisting {
		t.Error("expected WasExisting to be false for a new team")
	}
	if result.Team.PaymentStatus != models.PaymentPending {
		t.Errorf("new team payment status = %q, want PENDING", result.Team.PaymentStatus)
	}
	if result.Team.PaymentQuantity != 2 {
		t.Errorf("new team payment quantity = %d, want 2", result.Team.PaymentQuantity)
	}
	if len(result.Registrations) != 2 {
		t.Fatalf("got %d registrations, want 2", len(result.Registrations))
	}
	if len(participantRepo.participants) != 2 {
		t.Errorf("stored %d participant rows, want 2", len(participantRepo.participants))
	}
	for _, reg := range result.Registrations {
		if reg.TournamentID != "t-1" || reg.TeamID != result.Team.ID {
			t.Errorf("registration %+v does not reference the tournament and team", reg)
		}
	}
	if len(teamRepo.created) != 1 {
		t.Errorf("created %d teams, want 1", len(teamRepo.created))
	}
}

func TestRegisterExistingTeamAddsQuantity(t *testing.T) {
	existing := &models.Team{
		ID:              "team-1",
		Name:            "RRQ Hoshi",
		Contact:         "old-contact",
		Logo:            "https://cdn.example.com/old-logo.png",
		Players:         []string{"old"},
		PaymentStatus:   models.PaymentPaid,
		PaymentQuantity: 2,
	}
	_, teamRepo, _, participantRepo, svc := newRegistrationFixture(existing)

	input := validRegisterInput()
	input.Quantity = 3

	result, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if !result.WasExisting {
		t.Error("expected WasExisting to be true")
	}
	if result.Team.PaymentQuantity != 5 {
		t.Errorf("payment quantity = %d, want 2+3=5", result.Team.PaymentQuantity)
	}
	if result.Team.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment status changed to %q, registration must not touch it", result.Team.PaymentStatus)
	}
	if result.Team.Contact != input.Contact {
		t.Errorf("contact = %q, want replaced with %q", result.Team.Contact, input.Contact)
	}
	if result.Team.Logo != existing.Logo {
		t.Errorf("logo = %q, empty input must keep the stored logo", result.Team.Logo)
	}
	if len(result.Registrations) != 3 {
		t.Errorf("got %d registrations, want 3", len(result.Registrations))
	}
	if len(participantRepo.participants) != 3 {
		t.Errorf("stored %d participant rows, want 3", len(participantRepo.participants))
	}
	if len(teamRepo.created) != 0 {
		t.Error("existing team must not be recreated")
	}
}

func TestRegisterReplacesLogoWhenProvided(t *testing.T) {
	existing := &models.Team{
		ID:      "team-1",
		Name:    "RRQ Hoshi",
		Logo:    "https://cdn.example.com/old-logo.png",
		Players: []string{"old"},
	}
	_, _, _, _, svc := newRegistrationFixture(existing)

	input := validRegisterInput()
	input.Logo = "https://cdn.example.com/new-logo.png"

	result, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.Team.Logo != input.Logo {
		t.Errorf("logo = %q, want %q", result.Team.Logo, input.Logo)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing tournament id", func(in *RegisterInput) { in.TournamentID = "" }},
		{"team name too short", func(in *RegisterInput) { in.TeamName = "x" }},
		{"missing contact", func(in *RegisterInput) { in.Contact = "" }},
		{"empty players", func(in *RegisterInput) { in.Players = nil }},
		{"quantity zero", func(in *RegisterInput) { in.Quantity = 0 }},
		{"quantity above limit", func(in *RegisterInput) { in.Quantity = 11 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, _, _, participantRepo, svc := newRegistrationFixture()

			input := validRegisterInput()
			tt.mutate(&input)

			_, err := svc.Register(context.Background(), input)
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("error = %v, want ErrValidationFailed", err)
			}
			if tx.calls != 0 {
				t.Error("validation failure must not open a transaction")
			}
			if len(participantRepo.participants) != 0 {
				t.Error("validation failure must not write participants")
			}
		})
	}
}

func TestRegisterUnknownTournament(t *testing.T) {
	tx, teamRepo, _, _, svc := newRegistrationFixture()

	input := validRegisterInput()
	input.TournamentID = "no-such-tournament"

	_, err := svc.Register(context.Background(), input)
	if !errors.Is(err, ErrRegistrationTournamentUnknown) {
		t.Fatalf("error = %v, want ErrRegistrationTournamentUnknown", err)
	}
	if tx.calls != 0 {
		t.Error("unknown tournament must be rejected before the transaction")
	}
	if len(teamRepo.created) != 0 {
		t.Error("unknown tournament must not create a team")
	}
}

func TestRegisterParticipantFailurePropagates(t *testing.T) {
	_, _, _, participantRepo, svc := newRegistrationFixture()
	participantRepo.createBatchErr = errors.New("insert failed")

	_, err := svc.Register(context.Background(), validRegisterInput())
	if err == nil {
		t.Fatal("expected error when participant insert fails")
	}
	if len(participantRepo.participants) != 0 {
		t.Error("failed batch must not leave participant rows")
	}
}

func TestRegisterRetriesOnNameConflict(t *testing.T) {
	// Симулирует гонку: первая вставка падает на уникальном имени, потому
	// что команда появилась между проверкой и записью.
	tx, teamRepo, _, _, svc := newRegistrationFixture()
	teamRepo.createConflicts = 1

	teamRepo.raced = &models.Team{
		ID:              "team-raced",
		Name:            "RRQ Hoshi",
		PaymentQuantity: 1,
	}

	input := validRegisterInput()
	result, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if tx.calls != 2 {
		t.Errorf("transaction attempts = %d, want 2 (original + retry)", tx.calls)
	}
	if !result.WasExisting {
		t.Error("retry must resolve the concurrently created team")
	}
	if result.Team.PaymentQuantity != 1+input.Quantity {
		t.Errorf("payment quantity = %d, want %d", result.Team.PaymentQuantity, 1+input.Quantity)
	}
}

func TestRegisterConflictOnRetryIsABadRequest(t *testing.T) {
	// Both the insert and its retry hit the unique constraint. The caller
	// must see the team-name conflict, not an internal error.
	tx, teamRepo, _, _, svc := newRegistrationFixture()
	teamRepo.createConflicts = 2

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, ErrTeamNameConflict) {
		t.Fatalf("error = %v, want ErrTeamNameConflict", err)
	}
	if tx.calls != 2 {
		t.Errorf("transaction attempts = %d, want 2", tx.calls)
	}
}

// Каждая транзакция читает команду блокирующим SELECT ... FOR UPDATE, поэтому
// параллельные регистрации сериализуются на строке и инкременты не теряются.
func TestRegisterIncrementsAreNotLost(t *testing.T) {
	existing := &models.Team{
		ID:              "team-1",
		Name:            "RRQ Hoshi",
		Players:         []string{"alpha"},
		PaymentQuantity: 2,
	}
	_, teamRepo, _, participantRepo, svc := newRegistrationFixture(existing)

	first := validRegisterInput()
	first.Quantity = 3
	second := validRegisterInput()
	second.Quantity = 4

	if _, err := svc.Register(context.Background(), first); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	result, err := svc.Register(context.Background(), second)
	if err != nil {
		t.Fatalf("second Register returned error: %v", err)
	}

	if result.Team.PaymentQuantity != 2+3+4 {
		t.Errorf("payment quantity = %d, want 9 (both increments kept)", result.Team.PaymentQuantity)
	}
	if len(participantRepo.participants) != 3+4 {
		t.Errorf("stored %d participant rows, want 7", len(participantRepo.participants))
	}
	if teamRepo.lockedReads != 2 {
		t.Errorf("locking reads = %d, want one per registration transaction", teamRepo.lockedReads)
	}
}
