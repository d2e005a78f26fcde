package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/Dosada05/tournament-engine/config"
	"github.com/Dosada05/tournament-engine/engine"
	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/schedule"
)

const syncKind = "sync"

// ScheduleView is the timing of one tournament.
type ScheduleView struct {
	TournamentID string              `json:"tournament_id"`
	Estimates    []schedule.Estimate `json:"estimates"`
	Slots        []schedule.Slot     `json:"slots"`
}

type StandingsView struct {
	TournamentID      string                      `json:"tournament_id"`
	Status            models.TournamentStatus     `json:"status"`
	Standings         []models.StandingEntry      `json:"standings"`
	GroupStandings    []models.GroupStandingEntry `json:"group_standings,omitempty"`
	Placements        []models.Placement          `json:"placements,omitempty"`
	EliminatedTeamIDs []string                    `json:"eliminated_team_ids,omitempty"`
}

type TournamentService interface {
	Snapshot(ctx context.Context) (models.Snapshot, error)
	Tournament(ctx context.Context, id string) (*models.Tournament, error)
	// Create fills unset fields of cmd from the named preset and generates an
	// id when none is given.
	Create(ctx context.Context, preset string, cmd engine.CreateTournament) (*models.Tournament, error)
	Apply(ctx context.Context, cmd engine.Command) (models.Snapshot, error)
	Sync(ctx context.Context, remote models.Snapshot) (models.Snapshot, error)
	Schedule(ctx context.Context, id string) (*ScheduleView, error)
	Standings(ctx context.Context, id string) (*StandingsView, error)
}

type tournamentService struct {
	mu          sync.Mutex
	repo        repositories.SnapshotRepository
	broadcaster realtime.Broadcaster
	archive     *ArchiveService
	presets     map[string]config.Preset
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewTournamentService wires the command pipeline. archive may be nil to
// disable archiving.
func NewTournamentService(
	repo repositories.SnapshotRepository,
	broadcaster realtime.Broadcaster,
	archive *ArchiveService,
	presets map[string]config.Preset,
	m *metrics.Metrics,
	logger *slog.Logger,
) TournamentService {
	if presets == nil {
		presets = map[string]config.Preset{}
	}
	return &tournamentService{
		repo:        repo,
		broadcaster: broadcaster,
		archive:     archive,
		presets:     presets,
		metrics:     m,
		logger:      logger,
	}
}

func (s *tournamentService) Snapshot(ctx context.Context) (models.Snapshot, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

func (s *tournamentService) Tournament(ctx context.Context, id string) (*models.Tournament, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := snap.Tournament(id)
	if !ok {
		return nil, fmt.Errorf("tournament %q: %w", id, engine.ErrTournamentNotFound)
	}
	return t, nil
}

func (s *tournamentService) Create(ctx context.Context, preset string, cmd engine.CreateTournament) (*models.Tournament, error) {
	if preset != "" {
		p, ok := s.presets[preset]
		if !ok {
			return nil, fmt.Errorf("%q: %w", preset, ErrPresetNotFound)
		}
		cmd = applyPreset(cmd, p)
	}
	if strings.TrimSpace(cmd.ID) == "" {
		cmd.ID = xid.New().String()
	}
	snap, err := s.Apply(ctx, cmd)
	if err != nil {
		return nil, err
	}
	t, _ := snap.Tournament(strings.TrimSpace(cmd.ID))
	return t, nil
}

// Apply serializes one command: load, apply, save, then broadcast the
// tournaments it changed. Archiving runs after the lock is released. A failed
// command leaves the store untouched.
func (s *tournamentService) Apply(ctx context.Context, cmd engine.Command) (models.Snapshot, error) {
	started := time.Now()
	before, after, changed, err := s.mutate(ctx, func(before models.Snapshot) (models.Snapshot, error) {
		after, err := engine.Apply(before, cmd)
		if err != nil {
			s.logger.Debug("command rejected", slog.String("kind", cmd.Kind()), slog.Any("error", err))
		}
		return after, err
	})
	s.metrics.ObserveCommand(cmd.Kind(), started, err)
	if err != nil {
		return before, err
	}
	s.logger.Info("command applied", slog.String("kind", cmd.Kind()), slog.Any("changed", changed))
	s.archiveChanges(ctx, before, after, changed)
	return after, nil
}

// Sync merges a snapshot edited elsewhere into the stored one.
func (s *tournamentService) Sync(ctx context.Context, remote models.Snapshot) (models.Snapshot, error) {
	started := time.Now()
	before, after, changed, err := s.mutate(ctx, func(before models.Snapshot) (models.Snapshot, error) {
		return engine.Merge(before, remote), nil
	})
	s.metrics.ObserveCommand(syncKind, started, err)
	if err != nil {
		return before, err
	}
	s.logger.Info("snapshot merged", slog.Any("changed", changed))
	s.archiveChanges(ctx, before, after, changed)
	return after, nil
}

// mutate runs fn on the stored snapshot under the lock and commits the result.
// before is the zero snapshot when loading fails.
func (s *tournamentService) mutate(ctx context.Context, fn func(models.Snapshot) (models.Snapshot, error)) (before, after models.Snapshot, changed []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err = s.repo.Load(ctx)
	if err != nil {
		return models.Snapshot{}, models.Snapshot{}, nil, fmt.Errorf("load snapshot: %w", err)
	}
	after, err = fn(before)
	if err != nil {
		return before, models.Snapshot{}, nil, err
	}
	changed, err = s.commit(ctx, before, after)
	if err != nil {
		return before, models.Snapshot{}, nil, err
	}
	return before, after, changed, nil
}

// commit persists after when it differs from before and publishes the
// changes. Publishing failures are logged, never returned.
func (s *tournamentService) commit(ctx context.Context, before, after models.Snapshot) ([]string, error) {
	changed := engine.Changed(before, after)
	if len(changed) == 0 && !containersChanged(before, after) {
		return nil, nil
	}
	if err := s.repo.Save(ctx, after); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	s.metrics.SetTournamentCounts(countByStatus(after))

	for _, id := range changed {
		s.publish(after, id)
	}
	return changed, nil
}

func (s *tournamentService) publish(snap models.Snapshot, id string) {
	msg := realtime.WebSocketMessage{Type: realtime.MessageTournamentRemoved, RoomID: realtime.RoomForTournament(id)}
	if t, ok := snap.Tournament(id); ok {
		msg.Type = realtime.MessageTournamentUpdated
		msg.Payload = t
		msg.Revision = t.Revision
	}
	s.broadcaster.BroadcastToRoom(msg.RoomID, msg)
	s.metrics.BroadcastsTotal.Inc()
}

func (s *tournamentService) archiveChanges(ctx context.Context, before, after models.Snapshot, changed []string) {
	for _, id := range changed {
		s.archiveTransition(ctx, before, after, id)
	}
}

// archiveTransition archives a tournament that just completed and drops the
// archive of one that left the completed status.
func (s *tournamentService) archiveTransition(ctx context.Context, before, after models.Snapshot, id string) {
	if s.archive == nil {
		return
	}
	wasDone := completed(before, id)
	t, exists := after.Tournament(id)
	isDone := exists && t.Status == models.StatusCompleted

	switch {
	case isDone && !wasDone:
		if _, err := s.archive.Archive(ctx, *t); err != nil {
			s.logger.Error("failed to archive tournament", slog.String("tournament_id", id), slog.Any("error", err))
		}
	case wasDone && !isDone:
		if err := s.archive.Remove(ctx, id); err != nil {
			s.logger.Error("failed to remove tournament archive", slog.String("tournament_id", id), slog.Any("error", err))
		}
	}
}

func completed(snap models.Snapshot, id string) bool {
	t, ok := snap.Tournament(id)
	return ok && t.Status == models.StatusCompleted
}

func containersChanged(before, after models.Snapshot) bool {
	if len(before.Containers) != len(after.Containers) {
		return true
	}
	rev := make(map[string]int64, len(before.Containers))
	for _, c := range before.Containers {
		rev[c.ID] = c.Revision
	}
	for _, c := range after.Containers {
		if r, ok := rev[c.ID]; !ok || r != c.Revision {
			return true
		}
	}
	return false
}

func countByStatus(snap models.Snapshot) map[string]int {
	counts := make(map[string]int)
	for _, t := range snap.Tournaments {
		counts[string(t.Status)]++
	}
	return counts
}

func (s *tournamentService) Schedule(ctx context.Context, id string) (*ScheduleView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	target, ok := snap.Tournament(id)
	if !ok {
		return nil, fmt.Errorf("tournament %q: %w", id, engine.ErrTournamentNotFound)
	}

	phases := []*models.Tournament{target}
	breakBetween := 0
	if c, ok := snap.Container(target.ContainerID); ok {
		phases = phases[:0]
		for _, ref := range c.Phases {
			if p, ok := snap.Tournament(ref.TournamentID); ok {
				phases = append(phases, p)
			}
		}
		if len(phases) > 0 && phases[0].Scheduling != nil {
			breakBetween = phases[0].Scheduling.BreakBetweenPhases
		}
	}

	estimates, err := schedule.EstimatePhases(phases, breakBetween)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	view := &ScheduleView{TournamentID: id, Estimates: estimates}
	for i, p := range phases {
		if p.ID != id {
			continue
		}
		start, err := schedule.ParseClock(estimates[i].StartTime)
		if err != nil {
			return nil, err
		}
		// plan on a copy; the stored tournament keeps its own slots
		planned := p.Clone()
		if view.Slots, err = schedule.PlanAt(&planned, start); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *tournamentService) Standings(ctx context.Context, id string) (*StandingsView, error) {
	t, err := s.Tournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StandingsView{
		TournamentID:      t.ID,
		Status:            t.Status,
		Standings:         t.Standings,
		GroupStandings:    t.GroupStandings,
		Placements:        t.Placements,
		EliminatedTeamIDs: t.EliminatedTeamIDs,
	}, nil
}

// IsNotFound reports whether err means a missing tournament.
func IsNotFound(err error) bool {
	return errors.Is(err, engine.ErrTournamentNotFound) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrPresetNotFound)
}
