// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glownetwork/glow_backend/middleware"
	"github.com/glownetwork/glow_backend/models"
	"github.com/glownetwork/glow_backend/repositories"
	"github.com/glownetwork/glow_backend/utils"
)

// AuthController handles member registration and login. Signup is where the
// referral graph gains its edges: every member except the seeded root must
// join through an existing code whose owner holds an active package.
type AuthController struct {
	users *repositories.UserRepository
}

func NewAuthController(users *repositories.UserRepository) *AuthController {
	return &AuthController{users: users}
}

// Signup registers a new member under a compulsory referral code.
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Username, email, phone, password and referral code are required",
		})
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.ReferralCode = strings.TrimSpace(req.ReferralCode)

	if !utils.IsValidPhone(req.Phone) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Phone number must be exactly 11 digits",
		})
	}
	if !utils.IsStrongPassword(req.Password) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Password must be at least 8 characters and include letters, numbers, and a symbol",
		})
	}

	if existing, err := ac.users.FindByEmail(ctx, req.Email); err != nil {
		return internalError(c, err)
	} else if existing != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email already exists",
		})
	}
	if existing, err := ac.users.FindByPhone(ctx, req.Phone); err != nil {
		return internalError(c, err)
	} else if existing != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Phone number already exists",
		})
	}

	referrer, err := ac.users.FindByReferralCode(ctx, req.ReferralCode)
	if err != nil {
		return internalError(c, err)
	}
	if referrer == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid referral code",
		})
	}
	// The seeded root has no referrer of its own and may recruit before
	// buying a package; everyone else must hold one first.
	if referrer.ReferredBy != "" && !referrer.HasActivePackage() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "This referral code cannot be used. The referrer needs to purchase a package first.",
		})
	}

	newCode, err := ac.uniqueReferralCode(ctx)
	if err != nil {
		return internalError(c, err)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return internalError(c, err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     hashed,
		UserType:     models.UserTypeMember,
		ReferralCode: newCode,
		ReferredBy:   req.ReferralCode,
	}
	if err := ac.users.Insert(ctx, user); err != nil {
		// The unique indexes catch signup races on email/phone.
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "User with this email or phone already exists",
			})
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created successfully",
		Data:    map[string]string{"referralCode": newCode},
	})
}

// uniqueReferralCode retries generation until the code is unused. The
// unique index remains the final arbiter under races.
func (ac *AuthController) uniqueReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateReferralCode()
		if err != nil {
			return "", err
		}
		existing, err := ac.users.FindByReferralCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return utils.GenerateReferralCode()
}

// Login authenticates a member or admin and issues a token pair.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	user, err := ac.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return internalError(c, err)
	}
	if user == nil || !utils.CheckPassword(user.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         *user,
		},
	})
}

// EnsureDefaultAccounts seeds the root member (the referral forest's entry
// point) and the admin account from environment variables at startup.
func (ac *AuthController) EnsureDefaultAccounts(ctx context.Context) {
	rootPhone := os.Getenv("DEFAULT_USER_PHONE")
	rootName := os.Getenv("DEFAULT_USER_NAME")
	rootPassword := os.Getenv("DEFAULT_USER_PASSWORD")
	if rootPhone != "" && rootName != "" && rootPassword != "" {
		existing, err := ac.users.FindByPhone(ctx, rootPhone)
		if err != nil {
			log.Printf("Default user lookup failed: %v", err)
		} else if existing == nil {
			code, err := ac.uniqueReferralCode(ctx)
			if err == nil {
				hashed, hashErr := utils.HashPassword(rootPassword)
				if hashErr == nil {
					root := &models.User{
						Username:     rootName,
						Email:        rootPhone + "@glownetwork.com",
						Phone:        rootPhone,
						Password:     hashed,
						UserType:     models.UserTypeMember,
						ReferralCode: code,
					}
					if err := ac.users.Insert(ctx, root); err != nil {
						log.Printf("Failed to create default user: %v", err)
					} else {
						log.Printf("Default user created with referral code: %s", code)
					}
				}
			}
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return
	}
	existing, err := ac.users.FindByEmail(ctx, strings.ToLower(adminEmail))
	if err != nil || existing != nil {
		return
	}
	code, err := ac.uniqueReferralCode(ctx)
	if err != nil {
		return
	}
	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		return
	}
	admin := &models.User{
		Username:     "admin",
		Email:        strings.ToLower(adminEmail),
		Phone:        "00000000000",
		Password:     hashed,
		UserType:     models.UserTypeAdmin,
		ReferralCode: code,
	}
	if err := ac.users.Insert(ctx, admin); err != nil {
		log.Printf("Failed to create admin account: %v", err)
	} else {
		log.Println("Admin account created")
	}
}
