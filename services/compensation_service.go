// services/compensation_service.go
package services

import (
	"context"
	"log"

	"github.com/glownetwork/glow_backend/models"
	"github.com/glownetwork/glow_backend/utils"
)

// CompensationService is the payout ledger writer: it converts one approved
// package transaction into zero-or-one direct payout plus zero-to-five
// passive payouts. It only appends ledger entries; member and transaction
// mutation belongs to the approval orchestrator around it.
type CompensationService struct {
	Members MemberStore
	Payouts PayoutStore
}

func NewCompensationService(members MemberStore, payouts PayoutStore) *CompensationService {
	return &CompensationService{Members: members, Payouts: payouts}
}

// Distribute writes the payouts owed for an approved transaction and
// returns the ledger entries it created. The purchaser's package and rank
// fields must already be set by the caller.
//
// Direct payout: the immediate referrer earns the tier percentage of the
// net amount, but only while holding an active package; otherwise it is
// forfeited, not deferred, and the passive cascade is skipped too since the
// chain is broken at its first link.
//
// Passive cascade: level 1 is the referrer's own referrer (the referrer is
// already compensated by the direct payout). The walk stops at the first
// ancestor without an active package; an ancestor whose rank earns 0% is
// skipped but the walk continues.
func (s *CompensationService) Distribute(ctx context.Context, tx *models.Transaction, purchaser *models.User) ([]models.Payout, error) {
	if purchaser.ReferredBy == "" {
		return nil, nil
	}

	referrer, err := s.Members.FindByReferralCode(ctx, purchaser.ReferredBy)
	if err != nil {
		return nil, err
	}
	if referrer == nil || !referrer.HasActivePackage() {
		return nil, nil
	}

	var written []models.Payout

	amount, percentage := utils.DirectPayoutAmount(tx.PackageType)
	direct := models.Payout{
		UserID:              referrer.ID,
		Type:                models.PayoutDirect,
		Amount:              amount,
		SourceTransactionID: tx.ID,
		SourceUserID:        purchaser.ID,
		PackageAmount:       tx.NetAmount,
		Percentage:          percentage,
		Level:               1,
	}
	if err := s.Payouts.Insert(ctx, &direct); err != nil {
		return written, err
	}
	written = append(written, direct)

	passive, err := s.writePassiveCascade(ctx, tx, purchaser, referrer)
	written = append(written, passive...)
	return written, err
}

func (s *CompensationService) writePassiveCascade(ctx context.Context, tx *models.Transaction, purchaser *models.User, referrer *models.User) ([]models.Payout, error) {
	lookup := func(code string) (*models.User, error) {
		return s.Members.FindByReferralCode(ctx, code)
	}

	var written []models.Payout
	err := utils.WalkUpline(referrer, lookup, utils.MaxPassiveLevels,
		func(level int, ancestor *models.User) (bool, error) {
			if !ancestor.HasActivePackage() {
				// Break, not skip: a packageless ancestor ends the cascade.
				return false, nil
			}

			percentage := utils.PassivePercentage(ancestor.Rank, level)
			if percentage == 0 {
				return true, nil
			}

			payout := models.Payout{
				UserID:              ancestor.ID,
				Type:                models.PayoutPassive,
				Amount:              utils.PassiveAmount(tx.NetAmount, percentage),
				SourceTransactionID: tx.ID,
				SourceUserID:        purchaser.ID,
				PackageAmount:       tx.NetAmount,
				Percentage:          percentage,
				Level:               level,
			}
			if err := s.Payouts.Insert(ctx, &payout); err != nil {
				return false, err
			}
			written = append(written, payout)
			return true, nil
		})
	if err != nil {
		log.Printf("Passive cascade for transaction %s stopped early: %v", tx.ID.Hex(), err)
	}
	return written, err
}
