package engine

import "github.com/Dosada05/tournament-engine/models"

// Merge combines two snapshots edited independently. Each tournament and
// container is taken whole from the side with the higher revision; local wins
// ties. Local order is kept and remote-only entries are appended.
func Merge(local, remote models.Snapshot) models.Snapshot {
	out := models.Snapshot{
		Tournaments: mergeByRevision(local.Tournaments, remote.Tournaments,
			func(t models.Tournament) (string, int64) { return t.ID, t.Revision }),
		Containers: mergeByRevision(local.Containers, remote.Containers,
			func(c models.TournamentContainer) (string, int64) { return c.ID, c.Revision }),
	}
	return out.Clone()
}

func mergeByRevision[T any](local, remote []T, key func(T) (string, int64)) []T {
	if local == nil && remote == nil {
		return nil
	}
	remoteByID := make(map[string]T, len(remote))
	for _, r := range remote {
		id, _ := key(r)
		remoteByID[id] = r
	}
	out := make([]T, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local))
	for _, l := range local {
		id, rev := key(l)
		seen[id] = true
		if r, ok := remoteByID[id]; ok {
			if _, remoteRev := key(r); remoteRev > rev {
				out = append(out, r)
				continue
			}
		}
		out = append(out, l)
	}
	for _, r := range remote {
		if id, _ := key(r); !seen[id] {
			out = append(out, r)
		}
	}
	return out
}
