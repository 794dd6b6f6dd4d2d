package analytics

import (
	"time"

	"financas/internal/core"
)

// Health classifies how a goal is tracking toward its target.
type Health string

const (
	OnTrack   Health = "on_track"
	Attention Health = "attention"
	Risk      Health = "risk"
)

// ClassifyGoal classifies a goal's progress against elapsed time. The
// classification is stateless and recomputed on demand, never persisted.
//
// Without a deadline only absolute progress counts: ≥50% on track, ≥25%
// needs attention, below that at risk. With a deadline, progress is
// compared against the share of the goal period already elapsed.
func ClassifyGoal(g core.Goal, now time.Time) Health {
	progress := progressPercent(g)

	if !g.HasDeadline() {
		switch {
		case progress >= 50:
			return OnTrack
		case progress >= 25:
			return Attention
		default:
			return Risk
		}
	}

	totalDays := g.Deadline.Sub(g.CreatedAt).Hours() / 24
	daysRemaining := g.Deadline.Sub(now).Hours() / 24

	timeProgress := 100.0
	if totalDays > 0 {
		timeProgress = (totalDays - daysRemaining) / totalDays * 100
	}

	switch {
	case progress >= timeProgress:
		return OnTrack
	case progress >= 0.7*timeProgress:
		return Attention
	default:
		return Risk
	}
}

func progressPercent(g core.Goal) float64 {
	if g.Target.Cents <= 0 {
		return 100
	}
	return float64(g.Current.Cents) / float64(g.Target.Cents) * 100
}
