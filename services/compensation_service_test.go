package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
)

func purchaseTx(userID primitive.ObjectID, amount, fee int64) *models.Transaction {
	return &models.Transaction{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Type:        "package_purchase",
		Amount:      amount,
		PackageType: amount,
		DeliveryFee: fee,
		NetAmount:   amount - fee,
		Status:      models.StatusApproved,
	}
}

func TestDistributeDirectPayout(t *testing.T) {
	members := newFakeMemberStore()
	payouts := newFakePayoutStore()
	svc := NewCompensationService(members, payouts)

	referrer := members.add(&models.User{
		ReferralCode: "GN-REFER1", Rank: models.RankManager, PackagePurchased: 50000,
	})
	purchaser := members.add(&models.User{
		ReferralCode: "GN-BUYER1", ReferredBy: "GN-REFER1",
		Rank: models.RankManager, PackagePurchased: 50000,
	})

	tx := purchaseTx(purchaser.ID, 50000, 1500)
	written, err := svc.Distribute(context.Background(), tx, purchaser)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}

	if len(written) != 1 {
		t.Fatalf("payouts written = %d, want 1", len(written))
	}
	direct := written[0]
	if direct.UserID != referrer.ID || direct.Type != models.PayoutDirect {
		t.Errorf("direct payout = %+v", direct)
	}
	// 35% of net 48500
	if direct.Amount != 16975 || direct.Percentage != 35 || direct.Level != 1 {
		t.Errorf("direct payout amount = %d pct = %d level = %d, want 16975/35/1",
			direct.Amount, direct.Percentage, direct.Level)
	}
}

func TestDistributeNoReferrerNoPayout(t *testing.T) {
	members := newFakeMemberStore()
	payouts := newFakePayoutStore()
	svc := NewCompensationService(members, payouts)

	purchaser := members.add(&models.User{
		ReferralCode: "GN-ROOT00", Rank: models.RankAssistant, PackagePurchased: 20000,
	})

	written, err := svc.Distribute(context.Background(), purchaseTx(purchaser.ID, 20000, 1000), purchaser)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(written) != 0 {
		t.Errorf("root purchaser should produce no payouts, got %d", len(written))
	}
}

func TestDistributeInactiveReferrerForfeits(t *testing.T) {
	members := newFakeMemberStore()
	payouts := newFakePayoutStore()
	svc := NewCompensationService(members, payouts)

	// Referrer recruited before buying a package; upline above them is fully
	// qualified but must not be paid either, the chain is broken at link one.
	members.add(&models.User{
		ReferralCode: "GN-GRAND1", Rank: models.RankDirector, PackagePurchased: 100000,
	})
	members.add(&models.User{
		ReferralCode: "GN-REFER1", ReferredBy: "GN-GRAND1",
	})
	purchaser := members.add(&models.User{
		ReferralCode: "GN-BUYER1", ReferredBy: "GN-REFER1",
		Rank: models.RankManager, PackagePurchased: 50000,
	})

	written, err := svc.Distribute(context.Background(), purchaseTx(purchaser.ID, 50000, 1500), purchaser)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(written) != 0 {
		t.Errorf("inactive referrer should forfeit everything, got %d payouts", len(written))
	}
}

// Builds the chain buyer -> c1 -> c2 -> ... and returns the ancestors in
// upline order (c1 is the direct referrer).
func buildChain(members *fakeMemberStore, ranks []string) (purchaser *models.User, chain []*models.User) {
	parent := ""
	for i := len(ranks) - 1; i >= 0; i-- {
		code := "GN-CHAIN" + string(rune('A'+i))
		u := &models.User{ReferralCode: code, ReferredBy: parent, Rank: ranks[i]}
		if ranks[i] != "" {
			u.PackagePurchased = 50000
		}
		members.add(u)
		parent = code
	}
	for i := range ranks {
		chain = append(chain, members.byCode["GN-CHAIN"+string(rune('A'+i))])
	}
	purchaser = members.add(&models.User{
		ReferralCode: "GN-BUYERX", ReferredBy: chain[0].ReferralCode,
		Rank: models.RankManager, PackagePurchased: 50000,
	})
	return purchaser, chain
}

func TestDistributePassiveCascadeLevels(t *testing.T) {
	members := newFakeMemberStore()
	payouts := newFakePayoutStore()
	svc := NewCompensationService(members, payouts)

	// buyer -> c0 (direct referrer) -> c1 ... c5. Passive level 1 is c1.
	purchaser, chain := buildChain(members, []string{
		models.RankManager,  // c0: direct payout only
		models.RankManager,  // c1: level 1, 5%
		models.RankSManager, // c2: level 2, 5%
		models.RankManager,  // c3: level 3, Manager earns 0 but walk continues
		models.RankDManager, // c4: level 4, 3%
		models.RankDirector, // c5: level 5, 3%
	})

	tx := purchaseTx(purchaser.ID, 50000, 1500) // net 48500
	written, err := svc.Distribute(context.Background(), tx, purchaser)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}

	// 1 direct + 4 passive (c3 earns nothing).
	if len(written) != 5 {
		t.Fatalf("payouts written = %d, want 5", len(written))
	}

	if got := payouts.forUser(chain[1].ID); len(got) != 1 || got[0].Amount != 2425 || got[0].Level != 1 {
		t.Errorf("level-1 ancestor payouts = %+v, want one of 2425", got)
	}
	if got := payouts.forUser(chain[2].ID); len(got) != 1 || got[0].Amount != 2425 || got[0].Level != 2 {
		t.Errorf("level-2 ancestor payouts = %+v, want one of 2425", got)
	}
	if got := payouts.forUser(chain[3].ID); len(got) != 0 {
		t.Errorf("Manager at level 3 must earn nothing, got %+v", got)
	}
	if got := payouts.forUser(chain[4].ID); len(got) != 1 || got[0].Amount != 1455 || got[0].Level != 4 {
		t.Errorf("level-4 ancestor payouts = %+v, want one of 1455", got)
	}
	if got := payouts.forUser(chain[5].ID); len(got) != 1 || got[0].Amount != 1455 || got[0].Level != 5 {
		t.Errorf("level-5 ancestor payouts = %+v, want one of 1455", got)
	}
}

func TestDistributeCascadeBreaksAtPackagelessAncestor(t *testing.T) {
	members := newFakeMemberStore()
	payouts := newFakePayoutStore()
	svc := NewCompensationService(members, payouts)

	// c2 never bought a package; c3 is a qualified Director but sits past the
	// break and must not be paid.
	purchaser, chain := buildChain(members, []string{
		models.RankManager,
		models.RankSManager,
		"", // packageless
		models.RankDirector,
	})

	written, err := svc.Distribute(context.Background(), purchaseTx(purchaser.ID, 100000, 2000), purchaser)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}

	// direct for c0 + passive level 1 for c1 only
	if len(written) != 2 {
		t.Fatalf("payouts written = %d, want 2", len(written))
	}
	if got := payouts.forUser(chain[3].ID); len(got) != 0 {
		t.Errorf("ancestor past the break must not be paid, got %+v", got)
	}
}

func TestDistributeCascadeCapsAtFiveLevels(t *testing.T) {
	members := newFakeMemberStore()
	payouts := newFakePayoutStore()
	svc := NewCompensationService(members, payouts)

	ranks := make([]string, 8)
	for i := range ranks {
		ranks[i] = models.RankDirector
	}
	purchaser, chain := buildChain(members, ranks)

	written, err := svc.Distribute(context.Background(), purchaseTx(purchaser.ID, 50000, 1500), purchaser)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(written) != 6 { // 1 direct + 5 passive
		t.Errorf("payouts written = %d, want 6", len(written))
	}
	for _, beyond := range chain[6:] {
		if got := payouts.forUser(beyond.ID); len(got) != 0 {
			t.Errorf("ancestor beyond level 5 must not be paid, got %+v", got)
		}
	}
}

func TestDistributeRetryDoesNotDoublePay(t *testing.T) {
	members := newFakeMemberStore()
	payouts := newFakePayoutStore()
	svc := NewCompensationService(members, payouts)

	purchaser, chain := buildChain(members, []string{models.RankManager, models.RankSManager})
	tx := purchaseTx(purchaser.ID, 50000, 1500)

	if _, err := svc.Distribute(context.Background(), tx, purchaser); err != nil {
		t.Fatalf("first Distribute: %v", err)
	}
	if _, err := svc.Distribute(context.Background(), tx, purchaser); err != nil {
		t.Fatalf("second Distribute: %v", err)
	}

	if got := payouts.forUser(chain[0].ID); len(got) != 1 {
		t.Errorf("direct referrer paid %d times, want 1", len(got))
	}
	if got := payouts.forUser(chain[1].ID); len(got) != 1 {
		t.Errorf("level-1 ancestor paid %d times, want 1", len(got))
	}
}
