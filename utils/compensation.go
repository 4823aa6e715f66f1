// utils/compensation.go
package utils

import "github.com/glownetwork/glow_backend/models"

// PackageConfig describes one purchasable tier: the rank assigned on
// approval, the delivery fee subtracted before any percentage is applied,
// and the direct-payout percentage awarded to the immediate referrer.
type PackageConfig struct {
	StartingRank     string
	DeliveryFee      int64
	PayoutPercentage int
}

// PackageConfigs maps tier amount to its configuration.
var PackageConfigs = map[int64]PackageConfig{
	20000:  {StartingRank: models.RankAssistant, DeliveryFee: 1000, PayoutPercentage: 30},
	50000:  {StartingRank: models.RankManager, DeliveryFee: 1500, PayoutPercentage: 35},
	100000: {StartingRank: models.RankSManager, DeliveryFee: 2000, PayoutPercentage: 40},
}

// MaxPassiveLevels caps the passive cascade. Level 1 is the referrer's own
// referrer; the direct referrer is compensated through the direct payout.
const MaxPassiveLevels = 5

// MonthlySalaryAmount is the fixed monthlySalary incentive payout.
const MonthlySalaryAmount = 40000

// LookupPackage returns the configuration for a tier amount.
func LookupPackage(amount int64) (PackageConfig, bool) {
	cfg, ok := PackageConfigs[amount]
	return cfg, ok
}

// NetAmount is the tier amount minus its delivery fee.
func NetAmount(amount int64) int64 {
	cfg, ok := PackageConfigs[amount]
	if !ok {
		return 0
	}
	return amount - cfg.DeliveryFee
}

// DirectPayoutAmount computes the immediate referrer's payout for a tier:
// floor(netAmount × tierPercentage / 100).
func DirectPayoutAmount(amount int64) (payout int64, percentage int) {
	cfg, ok := PackageConfigs[amount]
	if !ok {
		return 0, 0
	}
	net := amount - cfg.DeliveryFee
	return net * int64(cfg.PayoutPercentage) / 100, cfg.PayoutPercentage
}

// PassivePercentage returns the cascade percentage for an ancestor, driven
// by that ancestor's own rank and cascade level. A zero percentage does not
// halt the walk; only a missing package does, and the caller owns that check.
func PassivePercentage(rank string, level int) int {
	if level < 1 || level > MaxPassiveLevels {
		return 0
	}
	switch rank {
	case models.RankManager, models.RankSManager:
		if level <= 2 {
			return 5
		}
	case models.RankDManager, models.RankGManager, models.RankDirector:
		if level <= 2 {
			return 5
		}
		return 3
	}
	// Assistant or unranked earns nothing.
	return 0
}

// PassiveAmount computes floor(netAmount × percentage / 100).
func PassiveAmount(netAmount int64, percentage int) int64 {
	return netAmount * int64(percentage) / 100
}
