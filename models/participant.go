package models

import "time"

// TournamentParticipant is one registration slot linking a team to a
// tournament. Registering with quantity N creates N rows.
type TournamentParticipant struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournamentId" db:"tournament_id"`
	TeamID       string    `json:"teamId" db:"team_id"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`
}
