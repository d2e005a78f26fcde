package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/engine"
	"github.com/Dosada05/tournament-engine/services"
)

type jsonResponse map[string]interface{}

const maxBodyBytes = 4 << 20

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

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
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
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
	js, err := json.MarshalIndent(data, "", "\t")
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

// responder writes the JSON error envelope and logs what the client cannot see.
type responder struct {
	logger *slog.Logger
}

func (rs responder) errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		rs.logger.Error("failed to write error response", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (rs responder) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.logger.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	rs.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (rs responder) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (rs responder) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func (rs responder) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (rs responder) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (rs responder) unauthorizedResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusUnauthorized, err.Error())
}

// mapServiceErrorToHTTP turns engine and service errors into responses.
func (rs responder) mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrTournamentNotFound),
		errors.Is(err, engine.ErrTeamNotFound),
		errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrPresetNotFound):
		rs.notFoundResponse(w, r, err)

	case errors.Is(err, engine.ErrDuplicateTournament),
		errors.Is(err, engine.ErrDuplicateTeam),
		errors.Is(err, engine.ErrTournamentAlreadyStarted),
		errors.Is(err, engine.ErrTournamentNotStarted),
		errors.Is(err, engine.ErrLinkedPhase),
		errors.Is(err, engine.ErrRoundNotCompleted),
		errors.Is(err, engine.ErrSwissRoundLimit):
		rs.conflictResponse(w, r, err)

	case errors.Is(err, engine.ErrUnknownCommand),
		errors.Is(err, engine.ErrInvalidCommand):
		rs.badRequestResponse(w, r, err)

	case errors.Is(err, engine.ErrNotEnoughTeams),
		errors.Is(err, engine.ErrNotEnoughPresentTeams),
		errors.Is(err, engine.ErrTeamCountNotDivisible),
		errors.Is(err, engine.ErrGroupCountOutOfRange),
		errors.Is(err, engine.ErrInvalidGroupSize),
		errors.Is(err, engine.ErrUnsupportedSystem),
		errors.Is(err, engine.ErrInvalidConfiguration),
		errors.Is(err, engine.ErrUndecidedMatch),
		errors.Is(err, engine.ErrInvalidScore),
		errors.Is(err, brackets.ErrInvalidManualGroups),
		errors.Is(err, brackets.ErrUnsupportedGroupCount),
		errors.Is(err, brackets.ErrUnsupportedGroupSize),
		errors.Is(err, brackets.ErrMissingGroups),
		errors.Is(err, services.ErrValidationFailed):
		rs.failedValidationResponse(w, r, err)

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAuthenticationFailed):
		rs.unauthorizedResponse(w, r, err)

	default:
		rs.serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, key string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, key))
	if id == "" {
		return "", fmt.Errorf("missing %s in URL", key)
	}
	return id, nil
}
