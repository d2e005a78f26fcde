package services

import (
	"github.com/Dosada05/tournament-engine/config"
	"github.com/Dosada05/tournament-engine/engine"
	"github.com/Dosada05/tournament-engine/models"
)

// applyPreset copies preset values into the fields cmd leaves unset.
func applyPreset(cmd engine.CreateTournament, p config.Preset) engine.CreateTournament {
	if cmd.System == "" {
		cmd.System = models.TournamentSystem(p.System)
	}
	setInt(&cmd.NumberOfCourts, p.NumberOfCourts)
	setInt(&cmd.SetsPerMatch, p.SetsPerMatch)
	setInt(&cmd.PointsPerSet, p.PointsPerSet)
	setInt(&cmd.PointsPerThirdSet, p.PointsPerThirdSet)
	setInt(&cmd.WinPoints, p.WinPoints)
	setInt(&cmd.LossPoints, p.LossPoints)
	if cmd.Tiebreaker == "" {
		cmd.Tiebreaker = models.Tiebreaker(p.Tiebreaker)
	}

	if cmd.GroupPhase == nil && p.TeamsPerGroup > 0 {
		cmd.GroupPhase = &models.GroupPhaseConfig{
			TeamsPerGroup: p.TeamsPerGroup,
			Seeding:       models.GroupSeeding(p.Seeding),
			AllowByes:     p.AllowByes,
			FollowUp:      models.FollowUp(p.FollowUp),
		}
	}
	if cmd.Knockout == nil && p.ThirdPlaceMatch {
		cmd.Knockout = &models.KnockoutConfig{ThirdPlaceMatch: true}
	}
	if cmd.Swiss == nil && p.SwissRounds > 0 {
		cmd.Swiss = &models.SwissConfig{NumberOfRounds: p.SwissRounds}
	}
	if cmd.Scheduling == nil && (p.StartTime != "" || p.BreakMinutes > 0 || p.BreakBetweenPhases > 0 || p.AssignReferees) {
		cmd.Scheduling = &models.SchedulingConfig{
			StartTime:          p.StartTime,
			BreakMinutes:       p.BreakMinutes,
			BreakBetweenPhases: p.BreakBetweenPhases,
			AssignReferees:     p.AssignReferees,
		}
	}
	return cmd
}

func setInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}
