package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/storage"
)

const (
	archiveTournamentFile = "tournament.json"
	archiveStandingsFile  = "standings.csv"
)

// ArchiveService writes completed tournaments to object storage.
type ArchiveService struct {
	uploader storage.FileUploader
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewArchiveService(uploader storage.FileUploader, m *metrics.Metrics, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{uploader: uploader, metrics: m, logger: logger}
}

type artefact struct {
	name        string
	contentType string
	body        []byte
}

// Archive uploads the tournament document and its final standings
// concurrently.
func (a *ArchiveService) Archive(ctx context.Context, t models.Tournament) ([]storage.UploadResult, error) {
	doc, err := json.MarshalIndent(t, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("encode tournament %q: %w", t.ID, err)
	}
	table, err := StandingsCSV(t)
	if err != nil {
		return nil, fmt.Errorf("encode standings of %q: %w", t.ID, err)
	}
	files := []artefact{
		{archiveTournamentFile, "application/json", doc},
		{archiveStandingsFile, "text/csv", table},
	}

	results := make([]storage.UploadResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			res, err := a.uploader.Upload(gctx, storage.ArchiveKey(t.ID, f.name), f.contentType, bytes.NewReader(f.body))
			if err != nil {
				a.metrics.ArchiveUploads.WithLabelValues("error").Inc()
				return err
			}
			a.metrics.ArchiveUploads.WithLabelValues("ok").Inc()
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("archive tournament %q: %w", t.ID, err)
	}
	a.logger.Info("tournament archived", slog.String("tournament_id", t.ID), slog.String("location", results[0].Location))
	return results, nil
}

// Remove deletes the archive of a tournament that is no longer completed.
func (a *ArchiveService) Remove(ctx context.Context, tournamentID string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range []string{archiveTournamentFile, archiveStandingsFile} {
		name := name
		g.Go(func() error {
			return a.uploader.Delete(gctx, storage.ArchiveKey(tournamentID, name))
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("remove archive of %q: %w", tournamentID, err)
	}
	a.logger.Info("tournament archive removed", slog.String("tournament_id", tournamentID))
	return nil
}

// StandingsCSV renders the final table: standings order, with the placement
// when one was fixed.
func StandingsCSV(t models.Tournament) ([]byte, error) {
	place := make(map[string]int, len(t.Placements))
	for _, p := range t.Placements {
		place[p.TeamID] = p.Place
	}
	names := make(map[string]string, len(t.Teams))
	for _, team := range t.Teams {
		names[team.ID] = team.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"rank", "place", "team_id", "team_name", "played", "won", "lost",
		"sets_won", "sets_lost", "points_won", "points_lost", "points"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range t.Standings {
		placeCol := ""
		if p, ok := place[s.TeamID]; ok {
			placeCol = strconv.Itoa(p)
		}
		row := []string{
			strconv.Itoa(s.Rank), placeCol, s.TeamID, names[s.TeamID],
			strconv.Itoa(s.Played), strconv.Itoa(s.Won), strconv.Itoa(s.Lost),
			strconv.Itoa(s.SetsWon), strconv.Itoa(s.SetsLost),
			strconv.Itoa(s.PointsWon), strconv.Itoa(s.PointsLost), strconv.Itoa(s.Points),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
