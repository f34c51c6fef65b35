package handlers

import (
	"fmt"
	"net/http"

	"github.com/pabobernando/confused-be/metrics"
	"github.com/pabobernando/confused-be/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Register обрабатывает POST /tournament/register
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	result, err := h.registrationService.Register(r.Context(), input)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	outcome := "team_created"
	message := fmt.Sprintf("New team created and registered %d time(s) successfully", input.Quantity)
	if result.WasExisting {
		outcome = "team_updated"
		message = fmt.Sprintf("Existing team registered %d more time(s) for tournament", input.Quantity)
	}
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()

	registrations := make([]jsonResponse, 0, len(result.Registrations))
	for _, reg := range result.Registrations {
		registrations = append(registrations, jsonResponse{
			"id":           reg.ID,
			"tournamentId": reg.TournamentID,
			"teamId":       reg.TeamID,
			"registeredAt": reg.RegisteredAt,
		})
	}

	response := jsonResponse{
		"message": message,
		"team": jsonResponse{
			"id":               result.Team.ID,
			"name":             result.Team.Name,
			"contact":          result.Team.Contact,
			"payment_quantity": result.Team.PaymentQuantity,
			"isExisting":       result.WasExisting,
		},
		"registrations":      registrations,
		"totalRegistrations": len(result.Registrations),
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
