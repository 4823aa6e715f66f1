// utils/referral.go
package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// GenerateReferralCode generates a referral code of the form GN-XXXXXX
// where XXXXXX is 6 random base32 characters. Uniqueness is enforced by the
// unique index on users.referralCode; callers retry on collision.
func GenerateReferralCode() (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = strings.ToUpper(randomStr)
	if len(randomStr) > 6 {
		randomStr = randomStr[:6]
	}
	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	return "GN-" + randomStr, nil
}
