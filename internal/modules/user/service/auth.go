package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"anoa.com/inventorybackend/internal/entity"
	otp "anoa.com/inventorybackend/internal/modules/otp/service"
	"anoa.com/inventorybackend/internal/modules/user/dto"
	"anoa.com/inventorybackend/internal/modules/user/repository"
	"anoa.com/inventorybackend/pkg/apperror"
	"anoa.com/inventorybackend/pkg/mailer"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	SendOtp(ctx context.Context, identifier, purpose string) error
	VerifyEmail(ctx context.Context, identifier, code string) error
	ResetPassword(ctx context.Context, identifier, code, newPassword string) error
}

type authService struct {
	repo        repository.UserRepository
	otp         otp.OtpService
	mail        mailer.Mailer
	secret      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	defaultRole string
}

type tokenClaims struct {
	TokenType string `json:"token_type"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(repo repository.UserRepository, otpSvc otp.OtpService, mail mailer.Mailer) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	accessTTL := time.Hour
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			accessTTL = d
		}
	}

	refreshTTL := 7 * 24 * time.Hour
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			refreshTTL = d
		}
	}

	return &authService{
		repo:        repo,
		otp:         otpSvc,
		mail:        mail,
		secret:      secret,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		defaultRole: entity.RoleEmployee,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.UserResponse, error) {
	if exists, err := s.repo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, apperror.Conflict("email already registered")
	}

	if exists, err := s.repo.ExistsByPhone(ctx, input.Phone); err != nil {
		return nil, err
	} else if exists {
		return nil, apperror.Conflict("phone number already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Admin accounts are seeded, not self-registered.
	role, err := s.repo.FindRoleByName(ctx, s.defaultRole)
	if err != nil {
		return nil, errors.New("default role not found")
	}

	newUser := &entity.User{
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hashed),
		FullName:     input.FullName,
		RoleID:       &role.ID,
		Role:         *role,
		IsActive:     true,
	}
	if input.Address != "" {
		newUser.Address = &input.Address
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	// Verification mail is best-effort; the user can re-request a code.
	code, err := s.otp.Issue(ctx, newUser.Email, entity.OtpPurposeVerifyEmail)
	if err != nil {
		log.Printf("Failed to issue verification code for %s: %v", newUser.Email, err)
	} else if err := s.mail.SendOtp(newUser.Email, code, "email verification"); err != nil {
		log.Printf("Failed to send verification code to %s: %v", newUser.Email, err)
	}

	resp := dto.UserFromEntity(newUser)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByIdentifier(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
	}

	if !user.IsActive {
		return nil, apperror.New(http.StatusForbidden, "account is deactivated", apperror.ErrForbidden)
	}

	if !user.IsEmailVerified {
		return nil, apperror.New(http.StatusForbidden, "email is not verified", apperror.ErrForbidden)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.repo.Update(ctx, user); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.Email, err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil || claims.TokenType != tokenTypeRefresh {
		return nil, apperror.New(http.StatusUnauthorized, "invalid refresh token", apperror.ErrUnauthorized)
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid refresh token", apperror.ErrUnauthorized)
	}

	if !user.IsActive {
		return nil, apperror.New(http.StatusForbidden, "account is deactivated", apperror.ErrForbidden)
	}

	accessToken, expiresAt, err := s.generateToken(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}

	userResp := dto.UserFromEntity(user)
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken, // refresh token stays valid until it expires
		TokenType:    "Bearer",
		ExpiresIn:    expiresAt.Unix() - time.Now().Unix(),
		User:         &userResp,
	}, nil
}

func (s *authService) SendOtp(ctx context.Context, identifier, purpose string) error {
	if !validOtpPurpose(purpose) {
		return apperror.InvalidInput("unknown otp type")
	}

	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	code, err := s.otp.Issue(ctx, identifier, purpose)
	if err != nil {
		return err
	}

	// No SMS provider is wired; codes requested by phone number are
	// delivered to the account email as well.
	return s.mail.SendOtp(user.Email, code, strings.ReplaceAll(purpose, "_", " "))
}

func (s *authService) VerifyEmail(ctx context.Context, identifier, code string) error {
	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	if err := s.otp.Verify(ctx, identifier, entity.OtpPurposeVerifyEmail, code); err != nil {
		return err
	}

	user.IsEmailVerified = true
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mail.SendWelcome(user.Email, user.FullName); err != nil {
		log.Printf("Failed to send welcome mail to %s: %v", user.Email, err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, identifier, code, newPassword string) error {
	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	if err := s.otp.Verify(ctx, identifier, entity.OtpPurposeResetPassword, code); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashed)
	return s.repo.Update(ctx, user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	accessToken, expiresAt, err := s.generateToken(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := s.generateToken(user, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	userResp := dto.UserFromEntity(user)
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresAt.Unix() - time.Now().Unix(),
		User:         &userResp,
	}, nil
}

func (s *authService) generateToken(user *entity.User, tokenType string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)

	claims := tokenClaims{
		TokenType: tokenType,
		Role:      user.Role.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (s *authService) parseToken(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.ErrUnauthorized
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	return claims, nil
}

func validOtpPurpose(purpose string) bool {
	switch purpose {
	case entity.OtpPurposeLogin,
		entity.OtpPurposeRegister,
		entity.OtpPurposeResetPassword,
		entity.OtpPurposeVerifyEmail,
		entity.OtpPurposeVerifyPhone:
		return true
	}
	return false
}
