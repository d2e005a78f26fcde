package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/config"
	"github.com/Dosada05/tournament-engine/engine"
	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
)

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []realtime.WebSocketMessage
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message.(realtime.WebSocketMessage))
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	for i, m := range b.messages {
		out[i] = m.Type
	}
	return out
}

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string]string
	fail    bool
	// when set, uploads signal started and wait for release
	started chan struct{}
	release chan struct{}
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string]string{}}
}

func (u *memoryUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	if u.fail {
		return nil, errors.New("bucket unavailable")
	}
	if u.release != nil {
		select {
		case u.started <- struct{}{}:
		default:
		}
		select {
		case <-u.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = string(body)
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.example/" + key
}

func (u *memoryUploader) keys() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	var keys []string
	for k := range u.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type fixture struct {
	svc      TournamentService
	repo     *repositories.MemorySnapshotRepository
	hub      *recordingBroadcaster
	uploader *memoryUploader
	metrics  *metrics.Metrics
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, presets map[string]config.Preset) *fixture {
	t.Helper()
	f := &fixture{
		repo:     repositories.NewMemorySnapshotRepository(models.Snapshot{}),
		hub:      &recordingBroadcaster{},
		uploader: newMemoryUploader(),
		metrics:  metrics.New(),
	}
	archive := NewArchiveService(f.uploader, f.metrics, silentLogger())
	f.svc = NewTournamentService(f.repo, f.hub, archive, presets, f.metrics, silentLogger())
	return f
}

func teams(n int) []engine.TeamInput {
	out := make([]engine.TeamInput, n)
	for i := range out {
		out[i] = engine.TeamInput{ID: fmt.Sprintf("team%d", i+1), Name: fmt.Sprintf("Team %d", i+1)}
	}
	return out
}

func (f *fixture) mustApply(t *testing.T, cmd engine.Command) models.Snapshot {
	t.Helper()
	snap, err := f.svc.Apply(context.Background(), cmd)
	require.NoError(t, err)
	return snap
}

func TestApplyPersistsAndBroadcasts(t *testing.T) {
	f := newFixture(t, nil)
	f.mustApply(t, engine.CreateTournament{ID: "cup", System: models.SystemRoundRobin, Teams: teams(4)})
	snap := f.mustApply(t, engine.StartTournament{TournamentID: "cup"})

	cup, ok := snap.Tournament("cup")
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, cup.Status)
	assert.Len(t, cup.Matches, 6)
	assert.Equal(t, 2, f.repo.Saves())

	stored, err := f.svc.Tournament(context.Background(), "cup")
	require.NoError(t, err)
	assert.Equal(t, cup.Revision, stored.Revision)

	require.Len(t, f.hub.messages, 2)
	last := f.hub.messages[1]
	assert.Equal(t, realtime.MessageTournamentUpdated, last.Type)
	assert.Equal(t, "tournament_cup", last.RoomID)
	assert.Equal(t, cup.Revision, last.Revision)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TournamentsGauge.WithLabelValues("in_progress")))
}

func TestApplyRejectedCommandLeavesStore(t *testing.T) {
	f := newFixture(t, nil)
	f.mustApply(t, engine.CreateTournament{ID: "cup", System: models.SystemRoundRobin, Teams: teams(1)})

	_, err := f.svc.Apply(context.Background(), engine.StartTournament{TournamentID: "cup"})
	require.ErrorIs(t, err, engine.ErrNotEnoughTeams)
	assert.Equal(t, 1, f.repo.Saves())
	assert.Len(t, f.hub.messages, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CommandsTotal.WithLabelValues(engine.KindStartTournament, "error")))

	_, err = f.svc.Apply(context.Background(), engine.StartTournament{TournamentID: "missing"})
	require.ErrorIs(t, err, engine.ErrTournamentNotFound)
	assert.True(t, IsNotFound(err))
}

func TestApplyNoOpSkipsSave(t *testing.T) {
	f := newFixture(t, nil)
	f.mustApply(t, engine.CreateTournament{ID: "cup", System: models.SystemRoundRobin, Teams: teams(4)})
	f.mustApply(t, engine.StartTournament{TournamentID: "cup"})
	f.mustApply(t, engine.StartTournament{TournamentID: "cup"})
	f.mustApply(t, engine.CompleteMatch{TournamentID: "cup", MatchID: "unknown"})
	assert.Equal(t, 2, f.repo.Saves())
	assert.Len(t, f.hub.messages, 2)
}

func TestArchiveFollowsCompletion(t *testing.T) {
	f := newFixture(t, nil)
	f.mustApply(t, engine.CreateTournament{ID: "duel", System: models.SystemRoundRobin, Teams: teams(2)})
	snap := f.mustApply(t, engine.StartTournament{TournamentID: "duel"})
	duel, _ := snap.Tournament("duel")
	require.Len(t, duel.Matches, 1)

	snap = f.mustApply(t, engine.CompleteMatch{
		TournamentID: "duel",
		MatchID:      duel.Matches[0].ID,
		Scores:       []models.SetScore{{TeamA: 21, TeamB: 17}},
	})
	duel, _ = snap.Tournament("duel")
	require.Equal(t, models.StatusCompleted, duel.Status)

	assert.Equal(t, []string{"archive/duel/standings.csv", "archive/duel/tournament.json"}, f.uploader.keys())
	csv := f.uploader.objects["archive/duel/standings.csv"]
	assert.True(t, strings.HasPrefix(csv, "rank,place,team_id"))
	winner := *duel.Matches[0].TeamAID
	assert.Contains(t, csv, fmt.Sprintf("1,,%s,", winner))
	assert.Contains(t, csv, ",1,1,0,1,0,21,17,1")
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ArchiveUploads.WithLabelValues("ok")))

	f.mustApply(t, engine.ResetTournament{TournamentID: "duel"})
	assert.Empty(t, f.uploader.keys())
}

func TestArchiveFailureDoesNotFailCommand(t *testing.T) {
	f := newFixture(t, nil)
	f.uploader.fail = true
	f.mustApply(t, engine.CreateTournament{ID: "duel", System: models.SystemRoundRobin, Teams: teams(2)})
	snap := f.mustApply(t, engine.StartTournament{TournamentID: "duel"})
	duel, _ := snap.Tournament("duel")

	_, err := f.svc.Apply(context.Background(), engine.CompleteMatch{
		TournamentID: "duel",
		MatchID:      duel.Matches[0].ID,
		Scores:       []models.SetScore{{TeamA: 21, TeamB: 17}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.repo.Saves())
	assert.GreaterOrEqual(t, testutil.ToFloat64(f.metrics.ArchiveUploads.WithLabelValues("error")), 1.0)
}

func TestSlowArchiveDoesNotBlockCommands(t *testing.T) {
	f := newFixture(t, nil)
	f.uploader.started = make(chan struct{}, 1)
	f.uploader.release = make(chan struct{})
	f.mustApply(t, engine.CreateTournament{ID: "duel", System: models.SystemRoundRobin, Teams: teams(2)})
	f.mustApply(t, engine.CreateTournament{ID: "league", System: models.SystemRoundRobin, Teams: teams(4)})
	snap := f.mustApply(t, engine.StartTournament{TournamentID: "duel"})
	duel, _ := snap.Tournament("duel")

	completed := make(chan error, 1)
	go func() {
		_, err := f.svc.Apply(context.Background(), engine.CompleteMatch{
			TournamentID: "duel",
			MatchID:      duel.Matches[0].ID,
			Scores:       []models.SetScore{{TeamA: 21, TeamB: 17}},
		})
		completed <- err
	}()

	select {
	case <-f.uploader.started:
	case <-time.After(2 * time.Second):
		t.Fatal("archive upload did not start")
	}

	started := make(chan error, 1)
	go func() {
		_, err := f.svc.Apply(context.Background(), engine.StartTournament{TournamentID: "league"})
		started <- err
	}()
	select {
	case err := <-started:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("start waited for the archive upload")
	}

	close(f.uploader.release)
	require.NoError(t, <-completed)
	assert.Equal(t, []string{"archive/duel/standings.csv", "archive/duel/tournament.json"}, f.uploader.keys())

	league, err := f.svc.Tournament(context.Background(), "league")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, league.Status)
}

func TestSync(t *testing.T) {
	f := newFixture(t, nil)
	local := f.mustApply(t, engine.CreateTournament{ID: "cup", System: models.SystemRoundRobin, Teams: teams(4)})

	remote, err := engine.Apply(local, engine.StartTournament{TournamentID: "cup"})
	require.NoError(t, err)
	remote, err = engine.Apply(remote, engine.CreateTournament{ID: "other", System: models.SystemSwiss, Teams: teams(3)})
	require.NoError(t, err)

	merged, err := f.svc.Sync(context.Background(), remote)
	require.NoError(t, err)
	require.Len(t, merged.Tournaments, 2)
	cup, _ := merged.Tournament("cup")
	assert.Equal(t, models.StatusInProgress, cup.Status)
	assert.Equal(t, []string{
		realtime.MessageTournamentUpdated, realtime.MessageTournamentUpdated, realtime.MessageTournamentUpdated,
	}, f.hub.types())

	// stale remote changes nothing
	_, err = f.svc.Sync(context.Background(), local)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.Saves())
}

func TestCreateWithPreset(t *testing.T) {
	f := newFixture(t, map[string]config.Preset{
		"beach": {
			System:          "group_phase",
			NumberOfCourts:  3,
			PointsPerSet:    15,
			TeamsPerGroup:   4,
			FollowUp:        "knockout",
			ThirdPlaceMatch: true,
			StartTime:       "10:00",
		},
	})
	cup, err := f.svc.Create(context.Background(), "beach", engine.CreateTournament{Name: "Beach Cup", NumberOfCourts: 2, Teams: teams(8)})
	require.NoError(t, err)
	assert.NotEmpty(t, cup.ID)
	assert.Equal(t, models.SystemGroupPhase, cup.System)
	assert.Equal(t, 2, cup.NumberOfCourts)
	assert.Equal(t, 15, cup.PointsPerSet)
	require.NotNil(t, cup.GroupPhase)
	assert.Equal(t, models.FollowUpKnockout, cup.GroupPhase.FollowUp)
	assert.True(t, cup.Knockout.ThirdPlaceMatch)
	assert.Equal(t, "10:00", cup.Scheduling.StartTime)

	_, err = f.svc.Create(context.Background(), "indoor", engine.CreateTournament{})
	require.ErrorIs(t, err, ErrPresetNotFound)
}

func TestScheduleAndStandings(t *testing.T) {
	f := newFixture(t, nil)
	f.mustApply(t, engine.CreateTournament{
		ID:             "cup",
		System:         models.SystemGroupPhase,
		NumberOfCourts: 2,
		Teams:          teams(8),
		GroupPhase:     &models.GroupPhaseConfig{TeamsPerGroup: 4, FollowUp: models.FollowUpKnockout},
		Scheduling:     &models.SchedulingConfig{StartTime: "09:00", BreakMinutes: 5, BreakBetweenPhases: 30},
	})
	f.mustApply(t, engine.StartTournament{TournamentID: "cup"})

	view, err := f.svc.Schedule(context.Background(), "cup-ko")
	require.NoError(t, err)
	require.Len(t, view.Estimates, 2)
	assert.Equal(t, "cup", view.Estimates[0].TournamentID)
	assert.Equal(t, "09:00", view.Estimates[0].StartTime)
	assert.Equal(t, "11:25", view.Estimates[0].EndTime)
	assert.Equal(t, "11:55", view.Estimates[1].StartTime)
	require.NotEmpty(t, view.Slots)
	assert.Equal(t, "11:55", view.Slots[0].StartTime)

	standings, err := f.svc.Standings(context.Background(), "cup")
	require.NoError(t, err)
	assert.Len(t, standings.Standings, 8)
	assert.Len(t, standings.GroupStandings, 8)

	_, err = f.svc.Schedule(context.Background(), "nope")
	assert.True(t, IsNotFound(err))
}
