// utils/upline.go
package utils

import "github.com/glownetwork/glow_backend/models"

// MemberLookup resolves a referral code to its owner. A (nil, nil) return
// means no member holds the code and the walk simply ends there.
type MemberLookup func(code string) (*models.User, error)

// ChildrenLookup resolves a referral code to its direct referrals.
type ChildrenLookup func(code string) ([]models.User, error)

// UplineVisitor is called once per ancestor with its cascade level
// (1 = the starting member's own referrer). Returning false stops the walk.
type UplineVisitor func(level int, ancestor *models.User) (bool, error)

// WalkUpline follows ReferredBy pointers from start for at most maxLevels
// steps. Referral codes are assigned uniquely so a cycle should be
// impossible, but the store does not enforce graph integrity; a visited set
// silently truncates the walk instead of looping forever.
func WalkUpline(start *models.User, lookup MemberLookup, maxLevels int, visit UplineVisitor) error {
	if start == nil {
		return nil
	}
	visited := map[string]bool{start.ReferralCode: true}
	current := start
	for level := 1; level <= maxLevels; level++ {
		code := current.ReferredBy
		if code == "" || visited[code] {
			return nil
		}
		visited[code] = true

		ancestor, err := lookup(code)
		if err != nil {
			return err
		}
		if ancestor == nil {
			return nil
		}
		cont, err := visit(level, ancestor)
		if err != nil || !cont {
			return err
		}
		current = ancestor
	}
	return nil
}

// CollectTeam enumerates the whole downline of a referral code breadth
// first, guarding against cycles with a visited set. Reporting only; payout
// computation never uses transitive referrals.
func CollectTeam(rootCode string, children ChildrenLookup) ([]models.User, error) {
	visited := map[string]bool{rootCode: true}
	queue := []string{rootCode}
	var team []models.User

	for len(queue) > 0 {
		code := queue[0]
		queue = queue[1:]

		directs, err := children(code)
		if err != nil {
			return nil, err
		}
		for i := range directs {
			member := directs[i]
			if member.ReferralCode != "" {
				if visited[member.ReferralCode] {
					continue
				}
				visited[member.ReferralCode] = true
				queue = append(queue, member.ReferralCode)
			}
			team = append(team, member)
		}
	}
	return team, nil
}
