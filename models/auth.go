// models/auth.go
package models

// SignupRequest is the member registration body. The referral code is
// compulsory: every member except the seeded root joins through an edge.
type SignupRequest struct {
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Password     string `json:"password" validate:"required"`
	ReferralCode string `json:"referralCode" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// ResetPasswordRequest is the admin-facing password reset body.
type ResetPasswordRequest struct {
	UserID string `json:"userId" validate:"required"`
}
