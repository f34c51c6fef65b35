package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pabobernando/confused-be/services"
)

type jsonResponse map[string]interface{}

// errorEnvelope is the uniform error shape every endpoint responds with.
type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 10_485_760 // 10MB, poster/logo payloads arrive inline
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.Contains(err.Error(), "http: request body too large"):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	env := errorEnvelope{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func badRequestResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusBadRequest, message)
}

func unauthorizedResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusUnauthorized, message)
}

func notFoundResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusNotFound, message)
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	// Driver and internal error text stays in the logs, never in the body.
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	errorResponse(w, http.StatusInternalServerError, "The server encountered a problem and could not process your request.")
}

// mapServiceErrorToHTTP translates service-layer sentinel errors into the
// transport envelope. Every handler funnels its errors through here.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		badRequestResponse(w, err.Error())

	// The registration payload carries the tournament id alongside the other
	// fields, so an unknown tournament is a bad request there, while direct
	// lookups by id stay 404.
	case errors.Is(err, services.ErrRegistrationTournamentUnknown):
		badRequestResponse(w, "Tournament not found")

	case errors.Is(err, services.ErrTeamNameConflict):
		badRequestResponse(w, "Team name already exists.")
	case errors.Is(err, services.ErrTournamentHasParticipants):
		badRequestResponse(w, "Cannot delete tournament with existing participants. Please remove all participants first.")

	case errors.Is(err, services.ErrInvalidCredentials):
		unauthorizedResponse(w, "Invalid username or password")

	case errors.Is(err, services.ErrTeamNotFound):
		notFoundResponse(w, "Team not found.")
	case errors.Is(err, services.ErrTournamentNotFound):
		notFoundResponse(w, "Tournament not found.")

	default:
		serverErrorResponse(w, r, err)
	}
}
