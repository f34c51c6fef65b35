package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pabobernando/confused-be/models"
)

func strPtr(s string) *string { return &s }

func newTeamFixture(teams ...*models.Team) (*fakeTeamRepo, TeamService) {
	teamRepo := newFakeTeamRepo(teams...)
	return teamRepo, NewTeamService(teamRepo, nil, nil, discardLogger())
}

func TestUpdateTeamPartialMerge(t *testing.T) {
	_, svc := newTeamFixture(&models.Team{
		ID:      "team-1",
		Name:    "EVOS Legends",
		Contact: "old-contact",
		Logo:    "https://cdn.example.com/logo.png",
		Players: []string{"one", "two"},
	})

	updated, err := svc.UpdateTeam(context.Background(), "team-1", UpdateTeamInput{
		Contact: strPtr("new-contact"),
	})
	if err != nil {
		t.Fatalf("UpdateTeam returned error: %v", err)
	}

	if updated.Contact != "new-contact" {
		t.Errorf("contact = %q, want new-contact", updated.Contact)
	}
	if updated.Name != "EVOS Legends" {
		t.Errorf("name = %q, omitted fields must stay unchanged", updated.Name)
	}
	if updated.Logo != "https://cdn.example.com/logo.png" {
		t.Errorf("logo = %q, omitted fields must stay unchanged", updated.Logo)
	}
	if len(updated.Players) != 2 {
		t.Errorf("players = %v, omitted fields must stay unchanged", updated.Players)
	}
}

func TestUpdateTeamRenameConflict(t *testing.T) {
	_, svc := newTeamFixture(
		&models.Team{ID: "team-1", Name: "EVOS Legends"},
		&models.Team{ID: "team-2", Name: "ONIC Esports"},
	)

	_, err := svc.UpdateTeam(context.Background(), "team-1", UpdateTeamInput{
		Name: strPtr("ONIC Esports"),
	})
	if !errors.Is(err, ErrTeamNameConflict) {
		t.Fatalf("error = %v, want ErrTeamNameConflict", err)
	}
}

func TestUpdateTeamSameNameIsNotAConflict(t *testing.T) {
	_, svc := newTeamFixture(&models.Team{ID: "team-1", Name: "EVOS Legends"})

	if _, err := svc.UpdateTeam(context.Background(), "team-1", UpdateTeamInput{
		Name: strPtr("EVOS Legends"),
	}); err != nil {
		t.Fatalf("resubmitting the current name must succeed, got %v", err)
	}
}

func TestUpdateTeamNotFound(t *testing.T) {
	_, svc := newTeamFixture()

	_, err := svc.UpdateTeam(context.Background(), "missing", UpdateTeamInput{})
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("error = %v, want ErrTeamNotFound", err)
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	teamRepo, svc := newTeamFixture(&models.Team{
		ID:            "team-1",
		Name:          "EVOS Legends",
		PaymentStatus: models.PaymentPending,
	})

	updated, err := svc.UpdatePaymentStatus(context.Background(), "team-1", models.PaymentPaid)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus returned error: %v", err)
	}
	if updated.PaymentStatus != models.PaymentPaid {
		t.Errorf("status = %q, want PAID", updated.PaymentStatus)
	}

	stored, _ := teamRepo.GetByID(context.Background(), "team-1")
	if stored.PaymentStatus != models.PaymentPaid {
		t.Errorf("stored status = %q, want PAID", stored.PaymentStatus)
	}
}

func TestUpdatePaymentStatusRejectsUnknownValue(t *testing.T) {
	_, svc := newTeamFixture(&models.Team{ID: "team-1", Name: "EVOS Legends"})

	_, err := svc.UpdatePaymentStatus(context.Background(), "team-1", models.PaymentStatus("REFUNDED"))
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("error = %v, want ErrValidationFailed", err)
	}
}
