// utils/rank.go
package utils

import (
	"fmt"

	"github.com/glownetwork/glow_backend/models"
)

// RankRequirement gates one step of the ladder. Value-based steps require a
// minimum summed package value over direct referrals with active packages;
// team-based steps require a count of direct referrals holding a specific
// rank (again, active packages only).
type RankRequirement struct {
	Next      string
	Value     int64
	TeamRank  string
	TeamCount int
}

// RankRequirements drives the ladder
// Assistant → Manager → S.Manager → D.Manager → G.Manager → Director.
// Director is terminal.
var RankRequirements = map[string]RankRequirement{
	models.RankAssistant: {Next: models.RankManager, Value: 50000},
	models.RankManager:   {Next: models.RankSManager, Value: 100000},
	models.RankSManager:  {Next: models.RankDManager, TeamRank: models.RankSManager, TeamCount: 5},
	models.RankDManager:  {Next: models.RankGManager, TeamRank: models.RankDManager, TeamCount: 5},
	models.RankGManager:  {Next: models.RankDirector, TeamRank: models.RankGManager, TeamCount: 4},
}

// DirectSummary is the recomputed state of a member's direct referrals,
// restricted to those holding an active package.
type DirectSummary struct {
	Value      int64
	RankCounts models.RankCounts
}

// SummarizeDirects folds direct referrals into a DirectSummary. Members
// without an active package contribute nothing.
func SummarizeDirects(directs []models.User) DirectSummary {
	var sum DirectSummary
	for i := range directs {
		d := &directs[i]
		if !d.HasActivePackage() {
			continue
		}
		sum.Value += d.PackagePurchased
		sum.RankCounts.Add(d.Rank)
	}
	return sum
}

// RankEvaluation is the outcome of one ladder-step evaluation.
type RankEvaluation struct {
	Target   string // next rank, empty when no rule fired
	Reason   string // shortfall description when Target is empty
	AtTop    bool   // current rank is terminal
	Shortcut bool   // fired via the direct-S.Manager shortcut
}

// EvaluateNextRank applies the transition rules to a member's current rank
// and recomputed direct summary. It is pure: no store access, no mutation.
//
// Rule order: the S.Manager shortcut for Assistant/Manager holders, then the
// value threshold, then the team-composition threshold. At most one step is
// taken per evaluation.
func EvaluateNextRank(currentRank string, sum DirectSummary) RankEvaluation {
	req, ok := RankRequirements[currentRank]
	if !ok {
		if currentRank == models.RankDirector {
			return RankEvaluation{AtTop: true, Reason: "Maximum rank reached"}
		}
		return RankEvaluation{Reason: "No rank assigned"}
	}

	// Shortcut: a direct S.Manager promotes Assistant/Manager straight to
	// S.Manager regardless of accumulated value.
	if (currentRank == models.RankAssistant || currentRank == models.RankManager) &&
		sum.RankCounts.SManager > 0 {
		return RankEvaluation{Target: models.RankSManager, Shortcut: true}
	}

	if req.Value > 0 {
		if sum.Value >= req.Value {
			return RankEvaluation{Target: req.Next}
		}
		return RankEvaluation{Reason: fmt.Sprintf(
			"Insufficient referral value. Required: %d, Current: %d", req.Value, sum.Value)}
	}

	if req.TeamCount > 0 {
		count := sum.RankCounts.Count(req.TeamRank)
		if count >= req.TeamCount {
			return RankEvaluation{Target: req.Next}
		}
		return RankEvaluation{Reason: fmt.Sprintf(
			"Insufficient direct team members. Required: %d direct %ss, Current: %d",
			req.TeamCount, req.TeamRank, count)}
	}

	return RankEvaluation{Reason: "No upgrade rule applies"}
}

// RankIndex returns a rank's position on the ladder, -1 for unranked or
// unknown. Used to keep approved ranks monotonically non-decreasing.
func RankIndex(rank string) int {
	switch rank {
	case models.RankAssistant:
		return 0
	case models.RankManager:
		return 1
	case models.RankSManager:
		return 2
	case models.RankDManager:
		return 3
	case models.RankGManager:
		return 4
	case models.RankDirector:
		return 5
	}
	return -1
}
