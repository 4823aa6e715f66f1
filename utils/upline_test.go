package utils

import (
	"testing"

	"github.com/glownetwork/glow_backend/models"
)

func chainLookup(members map[string]*models.User) MemberLookup {
	return func(code string) (*models.User, error) {
		return members[code], nil
	}
}

func TestWalkUplineLevels(t *testing.T) {
	// start -> A -> B -> C
	members := map[string]*models.User{
		"A": {ReferralCode: "A", ReferredBy: "B", Username: "a"},
		"B": {ReferralCode: "B", ReferredBy: "C", Username: "b"},
		"C": {ReferralCode: "C", Username: "c"},
	}
	start := &models.User{ReferralCode: "S", ReferredBy: "A"}

	var visited []string
	var levels []int
	err := WalkUpline(start, chainLookup(members), 5, func(level int, ancestor *models.User) (bool, error) {
		visited = append(visited, ancestor.Username)
		levels = append(levels, level)
		return true, nil
	})
	if err != nil {
		t.Fatalf("WalkUpline: %v", err)
	}
	if len(visited) != 3 || visited[0] != "a" || visited[2] != "c" {
		t.Errorf("visited = %v", visited)
	}
	for i, level := range levels {
		if level != i+1 {
			t.Errorf("levels = %v, want 1..3", levels)
			break
		}
	}
}

func TestWalkUplineMaxLevels(t *testing.T) {
	members := make(map[string]*models.User)
	for i := 0; i < 10; i++ {
		code := string(rune('A' + i))
		next := string(rune('A' + i + 1))
		members[code] = &models.User{ReferralCode: code, ReferredBy: next}
	}
	start := &models.User{ReferralCode: "S", ReferredBy: "A"}

	count := 0
	_ = WalkUpline(start, chainLookup(members), 5, func(level int, ancestor *models.User) (bool, error) {
		count++
		return true, nil
	})
	if count != 5 {
		t.Errorf("visited %d ancestors, want 5", count)
	}
}

func TestWalkUplineCycleGuard(t *testing.T) {
	// A and B refer to each other.
	members := map[string]*models.User{
		"A": {ReferralCode: "A", ReferredBy: "B"},
		"B": {ReferralCode: "B", ReferredBy: "A"},
	}
	start := &models.User{ReferralCode: "S", ReferredBy: "A"}

	count := 0
	err := WalkUpline(start, chainLookup(members), 100, func(level int, ancestor *models.User) (bool, error) {
		count++
		return true, nil
	})
	if err != nil {
		t.Fatalf("WalkUpline: %v", err)
	}
	if count != 2 {
		t.Errorf("cycle visited %d ancestors, want 2", count)
	}
}

func TestWalkUplineStopEarly(t *testing.T) {
	members := map[string]*models.User{
		"A": {ReferralCode: "A", ReferredBy: "B"},
		"B": {ReferralCode: "B"},
	}
	start := &models.User{ReferralCode: "S", ReferredBy: "A"}

	count := 0
	_ = WalkUpline(start, chainLookup(members), 5, func(level int, ancestor *models.User) (bool, error) {
		count++
		return false, nil
	})
	if count != 1 {
		t.Errorf("visitor returning false should stop the walk, visited %d", count)
	}
}

func TestCollectTeam(t *testing.T) {
	// root -> a, b; a -> c; plus a cycle edge c -> root's code.
	byParent := map[string][]models.User{
		"root": {
			{ReferralCode: "a", ReferredBy: "root", PackagePurchased: 20000},
			{ReferralCode: "b", ReferredBy: "root"},
		},
		"a": {
			{ReferralCode: "c", ReferredBy: "a", PackagePurchased: 50000},
		},
		"c": {
			{ReferralCode: "root", ReferredBy: "c"}, // corrupt edge
		},
	}
	team, err := CollectTeam("root", func(code string) ([]models.User, error) {
		return byParent[code], nil
	})
	if err != nil {
		t.Fatalf("CollectTeam: %v", err)
	}
	if len(team) != 3 {
		t.Errorf("team size = %d, want 3 (cycle edge must not loop)", len(team))
	}
}
