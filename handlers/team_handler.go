package handlers

import (
	"net/http"

	"github.com/pabobernando/confused-be/models"
	"github.com/pabobernando/confused-be/services"
	"github.com/go-chi/chi/v5"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// ListHandler обрабатывает GET /teams
func (h *TeamHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teams, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /team/{id}
func (h *TeamHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	team, err := h.teamService.GetTeamByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, team, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler обрабатывает PUT /team/{id}
func (h *TeamHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input services.UpdateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "Team updated successfully",
		"team": jsonResponse{
			"id":      team.ID,
			"name":    team.Name,
			"contact": team.Contact,
			"logo":    team.Logo,
			"player":  team.Players,
		},
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdatePaymentHandler обрабатывает PUT /team/{id}/payment
func (h *TeamHandler) UpdatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input struct {
		PaymentStatus models.PaymentStatus `json:"payment_status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	team, err := h.teamService.UpdatePaymentStatus(r.Context(), id, input.PaymentStatus)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "Team payment status updated successfully",
		"team": jsonResponse{
			"id":               team.ID,
			"name":             team.Name,
			"payment_status":   team.PaymentStatus,
			"payment_quantity": team.PaymentQuantity,
		},
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
