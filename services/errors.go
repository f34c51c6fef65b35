package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed          = errors.New("validation failed")
	ErrInvalidCredentials        = errors.New("invalid username or password")
	ErrTeamNameConflict          = errors.New("team name already exists")
	ErrTournamentHasParticipants = errors.New("tournament has registered participants")

	// Ресурс не найден
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// Регистрация передаёт id турнира в теле запроса, поэтому неизвестный
	// турнир трактуется как некорректный запрос, а не как отсутствующий ресурс.
	ErrRegistrationTournamentUnknown = errors.New("tournament not found")
)
