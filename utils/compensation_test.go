package utils

import (
	"testing"

	"github.com/glownetwork/glow_backend/models"
)

func TestDirectPayoutAmount(t *testing.T) {
	tests := []struct {
		amount     int64
		wantPayout int64
		wantPct    int
	}{
		{20000, 5700, 30},   // net 19000
		{50000, 16975, 35},  // net 48500
		{100000, 39200, 40}, // net 98000
		{12345, 0, 0},       // unknown tier
	}
	for _, tt := range tests {
		payout, pct := DirectPayoutAmount(tt.amount)
		if payout != tt.wantPayout || pct != tt.wantPct {
			t.Errorf("DirectPayoutAmount(%d) = (%d, %d), want (%d, %d)",
				tt.amount, payout, pct, tt.wantPayout, tt.wantPct)
		}
	}
}

func TestNetAmount(t *testing.T) {
	if got := NetAmount(50000); got != 48500 {
		t.Errorf("NetAmount(50000) = %d, want 48500", got)
	}
	if got := NetAmount(99999); got != 0 {
		t.Errorf("NetAmount(99999) = %d, want 0 for unknown tier", got)
	}
}

func TestLookupPackage(t *testing.T) {
	cfg, ok := LookupPackage(100000)
	if !ok {
		t.Fatal("LookupPackage(100000) not found")
	}
	if cfg.StartingRank != models.RankSManager || cfg.DeliveryFee != 2000 {
		t.Errorf("LookupPackage(100000) = %+v", cfg)
	}
	if _, ok := LookupPackage(0); ok {
		t.Error("LookupPackage(0) should not be found")
	}
}

func TestPassivePercentage(t *testing.T) {
	tests := []struct {
		rank  string
		level int
		want  int
	}{
		{models.RankManager, 1, 5},
		{models.RankManager, 2, 5},
		{models.RankManager, 3, 0},
		{models.RankSManager, 2, 5},
		{models.RankSManager, 5, 0},
		{models.RankDManager, 1, 5},
		{models.RankDManager, 3, 3},
		{models.RankGManager, 2, 5},
		{models.RankGManager, 5, 3},
		{models.RankDirector, 1, 5},
		{models.RankDirector, 4, 3},
		{models.RankDirector, 6, 0}, // beyond the cascade cap
		{models.RankAssistant, 1, 0},
		{"", 1, 0},
		{models.RankDirector, 0, 0},
	}
	for _, tt := range tests {
		if got := PassivePercentage(tt.rank, tt.level); got != tt.want {
			t.Errorf("PassivePercentage(%q, %d) = %d, want %d", tt.rank, tt.level, got, tt.want)
		}
	}
}

func TestPassiveAmount(t *testing.T) {
	if got := PassiveAmount(48500, 5); got != 2425 {
		t.Errorf("PassiveAmount(48500, 5) = %d, want 2425", got)
	}
	if got := PassiveAmount(98000, 3); got != 2940 {
		t.Errorf("PassiveAmount(98000, 3) = %d, want 2940", got)
	}
	// Floor semantics
	if got := PassiveAmount(99, 3); got != 2 {
		t.Errorf("PassiveAmount(99, 3) = %d, want 2", got)
	}
}
