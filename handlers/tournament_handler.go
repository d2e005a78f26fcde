package handlers

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/Dosada05/tournament-engine/engine"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/services"
)

type TournamentHandler struct {
	responder
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{
		responder:         responder{logger: logger},
		tournamentService: ts,
	}
}

// GetSnapshot handles GET /snapshot
func (h *TournamentHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.tournamentService.Snapshot(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": snap}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// SyncSnapshot handles PUT /snapshot: the body is merged into the stored
// snapshot, newer revisions win.
func (h *TournamentHandler) SyncSnapshot(w http.ResponseWriter, r *http.Request) {
	var remote models.Snapshot
	if err := readJSON(w, r, &remote); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	merged, err := h.tournamentService.Sync(r.Context(), remote)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": merged}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListCommands handles GET /commands
func (h *TournamentHandler) ListCommands(w http.ResponseWriter, r *http.Request) {
	kinds := engine.Kinds()
	sort.Strings(kinds)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"kinds": kinds}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ApplyCommand handles POST /commands with a {kind, payload} envelope.
func (h *TournamentHandler) ApplyCommand(w http.ResponseWriter, r *http.Request) {
	var env engine.Envelope
	if err := readJSON(w, r, &env); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	cmd, err := engine.Decode(env)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	snap, err := h.tournamentService.Apply(r.Context(), cmd)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": snap}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

type tournamentSummary struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	System      models.TournamentSystem `json:"system"`
	Status      models.TournamentStatus `json:"status"`
	ContainerID string                  `json:"container_id,omitempty"`
	PhaseOrder  int                     `json:"phase_order,omitempty"`
	Teams       int                     `json:"teams"`
	Matches     int                     `json:"matches"`
	Revision    int64                   `json:"revision"`
}

// ListHandler handles GET /tournaments
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := h.tournamentService.Snapshot(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	status := models.TournamentStatus(r.URL.Query().Get("status"))

	list := make([]tournamentSummary, 0, len(snap.Tournaments))
	for _, t := range snap.Tournaments {
		if status != "" && t.Status != status {
			continue
		}
		list = append(list, tournamentSummary{
			ID:          t.ID,
			Name:        t.Name,
			System:      t.System,
			Status:      t.Status,
			ContainerID: t.ContainerID,
			PhaseOrder:  t.PhaseOrder,
			Teams:       len(t.Teams),
			Matches:     len(t.Matches),
			Revision:    t.Revision,
		})
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": list, "containers": snap.Containers}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// CreateHandler handles POST /tournaments. The optional preset query
// parameter names a configured preset for the unset fields.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input engine.CreateTournament
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.Create(r.Context(), r.URL.Query().Get("preset"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.Tournament(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		return engine.StartTournament{TournamentID: id}, true
	})
}

func (h *TournamentHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		return engine.ResetTournament{TournamentID: id}, true
	})
}

// UpdateGroupsHandler handles PUT /tournaments/{tournamentID}/groups
func (h *TournamentHandler) UpdateGroupsHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		var cfg models.GroupPhaseConfig
		if err := readJSON(w, r, &cfg); err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		return engine.UpdateGroupConfiguration{TournamentID: id, Config: cfg}, true
	})
}

// UpdateSettingsHandler handles PUT /tournaments/{tournamentID}/settings
func (h *TournamentHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		var cmd engine.UpdatePhaseSettings
		if err := readJSON(w, r, &cmd); err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		cmd.TournamentID = id
		return cmd, true
	})
}

// AddTeamHandler handles POST /tournaments/{tournamentID}/teams
func (h *TournamentHandler) AddTeamHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		var team engine.TeamInput
		if err := readJSON(w, r, &team); err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		return engine.AddTeam{TournamentID: id, Team: team}, true
	})
}

// RemoveTeamHandler handles DELETE /tournaments/{tournamentID}/teams/{teamID}
func (h *TournamentHandler) RemoveTeamHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		teamID, err := getIDFromURL(r, "teamID")
		if err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		return engine.RemoveTeam{TournamentID: id, TeamID: teamID}, true
	})
}

// ReorderTeamsHandler handles PUT /tournaments/{tournamentID}/teams/order
func (h *TournamentHandler) ReorderTeamsHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		var input struct {
			TeamIDs []string `json:"team_ids"`
		}
		if err := readJSON(w, r, &input); err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		return engine.ReorderTeams{TournamentID: id, TeamIDs: input.TeamIDs}, true
	})
}

// SetPresenceHandler handles PUT /tournaments/{tournamentID}/teams/{teamID}/presence
func (h *TournamentHandler) SetPresenceHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		teamID, err := getIDFromURL(r, "teamID")
		if err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		var input struct {
			IsPresent bool `json:"is_present"`
		}
		if err := readJSON(w, r, &input); err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		return engine.SetTeamPresence{TournamentID: id, TeamID: teamID, IsPresent: input.IsPresent}, true
	})
}

type scoresInput struct {
	Scores []models.SetScore `json:"scores"`
}

// RecordScoreHandler handles PUT /tournaments/{tournamentID}/matches/{matchID}/score
func (h *TournamentHandler) RecordScoreHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		matchID, err := getIDFromURL(r, "matchID")
		if err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		var input scoresInput
		if err := readJSON(w, r, &input); err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		return engine.RecordMatchScore{TournamentID: id, MatchID: matchID, Scores: input.Scores}, true
	})
}

// CompleteMatchHandler handles POST /tournaments/{tournamentID}/matches/{matchID}/complete.
// The body is optional; scores in it replace the recorded ones.
func (h *TournamentHandler) CompleteMatchHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		matchID, err := getIDFromURL(r, "matchID")
		if err != nil {
			h.badRequestResponse(w, r, err)
			return nil, false
		}
		var input scoresInput
		if r.ContentLength != 0 {
			if err := readJSON(w, r, &input); err != nil {
				h.badRequestResponse(w, r, err)
				return nil, false
			}
		}
		return engine.CompleteMatch{TournamentID: id, MatchID: matchID, Scores: input.Scores}, true
	})
}

// NextSwissRoundHandler handles POST /tournaments/{tournamentID}/swiss/next
func (h *TournamentHandler) NextSwissRoundHandler(w http.ResponseWriter, r *http.Request) {
	h.withTournament(w, r, func(id string) (engine.Command, bool) {
		return engine.GenerateNextSwissRound{TournamentID: id}, true
	})
}

// CreatePlayoffHandler handles POST /tournaments/{tournamentID}/playoff and
// responds with the new phase.
func (h *TournamentHandler) CreatePlayoffHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	var input models.PlayoffConfig
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			h.badRequestResponse(w, r, err)
			return
		}
	}
	h.apply(w, r, engine.CreatePlayoffPhase{TournamentID: id, TopN: input.TopN}, engine.PlayoffPhaseID(id))
}

// ScheduleHandler handles GET /tournaments/{tournamentID}/schedule
func (h *TournamentHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	view, err := h.tournamentService.Schedule(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": view}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// StandingsHandler handles GET /tournaments/{tournamentID}/standings
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	view, err := h.tournamentService.Standings(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": view}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// withTournament builds a command for the tournament in the URL and applies
// it. build reports false when it already wrote a response.
func (h *TournamentHandler) withTournament(w http.ResponseWriter, r *http.Request, build func(id string) (engine.Command, bool)) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	cmd, ok := build(id)
	if !ok {
		return
	}
	h.apply(w, r, cmd, id)
}

func (h *TournamentHandler) apply(w http.ResponseWriter, r *http.Request, cmd engine.Command, respondWith string) {
	snap, err := h.tournamentService.Apply(r.Context(), cmd)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	tournament, ok := snap.Tournament(respondWith)
	if !ok {
		h.notFoundResponse(w, r, engine.ErrTournamentNotFound)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
