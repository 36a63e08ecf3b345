package progress

import "github.com/catlearn/backend/internal/models"

// Merge folds an update into a snapshot and returns a new snapshot. Neither
// input is mutated.
//
// Set fields (lessons, modules, badges) union in, so merging the same update
// twice is a no-op for them. Quiz scores overwrite per key — the latest
// attempt wins. Points are strictly additive: merging the same update twice
// double-counts them by contract, so callers must not replay point-bearing
// updates.
func Merge(snap *models.Snapshot, up models.Update) *models.Snapshot {
	out := snap.Clone()

	for _, id := range up.CompletedLessons {
		out.CompletedLessons[id] = true
	}
	for _, id := range up.CompletedModules {
		out.CompletedModules[id] = true
	}
	for id, score := range up.QuizScores {
		out.QuizScores[id] = score
	}
	for _, id := range up.Badges {
		out.Badges[id] = true
	}

	out.Points += up.PointsDelta

	return out
}
