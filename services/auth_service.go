package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"fitplan/models"
	"fitplan/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	mailer    *utils.Mailer // nil disables MFA / reset mail
	jwtSecret []byte
	rng       *rand.Rand
}

func NewAuthService(db *gorm.DB, mailer *utils.Mailer, jwtSecret []byte, rng *rand.Rand) *AuthService {
	return &AuthService{db: db, mailer: mailer, jwtSecret: jwtSecret, rng: rng}
}

func (s *AuthService) Register(email, password, name string) (string, *models.User, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return "", nil, utils.NewConflictError("Email already in use")
	} else if err != gorm.ErrRecordNotFound {
		return "", nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		Name:     name,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Login verifies credentials. When MFA is enabled a code is mailed instead of
// issuing a token and mfaPending is true.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, mfaPending bool, err error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", false, utils.NewUnauthorized("Invalid email or password")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", false, utils.NewUnauthorized("Invalid email or password")
	}

	if user.MFAEnabled {
		if s.mailer == nil {
			return "", false, utils.NewUpstreamError("MFA mail not configured")
		}
		code := fmt.Sprintf("%06d", s.rng.Intn(1000000))
		user.MFACode = code
		if err := s.db.Save(&user).Error; err != nil {
			return "", false, err
		}
		if err := s.mailer.SendMFAEmail(ctx, user.Email, code); err != nil {
			return "", false, utils.NewUpstreamError("Failed to send MFA code")
		}
		return "", true, nil
	}

	token, err = utils.GenerateJWT(s.jwtSecret, user.ID, user.Email)
	if err != nil {
		return "", false, err
	}
	return token, false, nil
}

func (s *AuthService) VerifyMFA(email, code string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", utils.NewUnauthorized("Invalid MFA code")
	}
	if user.MFACode == "" || user.MFACode != code {
		return "", utils.NewUnauthorized("Invalid MFA code")
	}

	user.MFACode = ""
	if err := s.db.Save(&user).Error; err != nil {
		return "", err
	}

	return utils.GenerateJWT(s.jwtSecret, user.ID, user.Email)
}

// ForgotPassword mails a reset code. Unknown emails are not an error so the
// endpoint cannot be used to probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil
	}
	if s.mailer == nil {
		return utils.NewUpstreamError("Reset mail not configured")
	}

	token := utils.GenerateRandomToken(s.rng, 6)
	user.ResetToken = token
	user.ResetTokenExp = time.Now().Add(15 * time.Minute)
	if err := s.db.Save(&user).Error; err != nil {
		return err
	}

	return s.mailer.SendResetEmail(ctx, user.Email, token)
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	var user models.User
	if err := s.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		return utils.NewValidationError("Invalid or expired token")
	}
	if time.Now().After(user.ResetTokenExp) {
		return utils.NewValidationError("Invalid or expired token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return s.db.Save(&user).Error
}
