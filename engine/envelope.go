package engine

import (
	"encoding/json"
	"fmt"
)

const (
	KindCreateTournament         = "create_tournament"
	KindStartTournament          = "start_tournament"
	KindRecordMatchScore         = "record_match_score"
	KindCompleteMatch            = "complete_match"
	KindGenerateNextSwissRound   = "generate_next_swiss_round"
	KindCreatePlayoffPhase       = "create_playoff_phase"
	KindResetTournament          = "reset_tournament"
	KindUpdateGroupConfiguration = "update_group_configuration"
	KindUpdatePhaseSettings      = "update_phase_settings"
	KindAddTeam                  = "add_team"
	KindRemoveTeam               = "remove_team"
	KindReorderTeams             = "reorder_teams"
	KindSetTeamPresence          = "set_team_presence"
)

// Envelope is the transport form of a command.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type decoder func(payload json.RawMessage) (Command, error)

func decodeAs[C Command](payload json.RawMessage) (Command, error) {
	var c C
	if len(payload) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return c, nil
}

var decoders = map[string]decoder{
	KindCreateTournament:         decodeAs[CreateTournament],
	KindStartTournament:          decodeAs[StartTournament],
	KindRecordMatchScore:         decodeAs[RecordMatchScore],
	KindCompleteMatch:            decodeAs[CompleteMatch],
	KindGenerateNextSwissRound:   decodeAs[GenerateNextSwissRound],
	KindCreatePlayoffPhase:       decodeAs[CreatePlayoffPhase],
	KindResetTournament:          decodeAs[ResetTournament],
	KindUpdateGroupConfiguration: decodeAs[UpdateGroupConfiguration],
	KindUpdatePhaseSettings:      decodeAs[UpdatePhaseSettings],
	KindAddTeam:                  decodeAs[AddTeam],
	KindRemoveTeam:               decodeAs[RemoveTeam],
	KindReorderTeams:             decodeAs[ReorderTeams],
	KindSetTeamPresence:          decodeAs[SetTeamPresence],
}

// Decode turns an envelope into its command.
func Decode(env Envelope) (Command, error) {
	dec, ok := decoders[env.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Kind)
	}
	return dec(env.Payload)
}

// Encode wraps a command for transport.
func Encode(cmd Command) (Envelope, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Kind: cmd.Kind(), Payload: payload}, nil
}

// Kinds lists every registered command kind.
func Kinds() []string {
	kinds := make([]string, 0, len(decoders))
	for k := range decoders {
		kinds = append(kinds, k)
	}
	return kinds
}
