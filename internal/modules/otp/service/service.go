package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"time"

	"anoa.com/inventorybackend/internal/entity"
	"anoa.com/inventorybackend/internal/modules/otp/repository"
	"anoa.com/inventorybackend/pkg/apperror"
	"anoa.com/inventorybackend/pkg/ratelimiter"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	codeTTL             = 10 * time.Minute
	defaultResendWindow = time.Minute
	maxAttempts         = 5
)

// OtpService issues and verifies one-time codes. Codes are 6 random digits,
// stored hashed, expire after 10 minutes and burn after a single successful
// verification or 5 failed attempts.
type OtpService interface {
	Issue(ctx context.Context, identifier, purpose string) (string, error)
	Verify(ctx context.Context, identifier, purpose, code string) error
	PurgeExpired(ctx context.Context) error
}

type otpService struct {
	repo         repository.OtpRepository
	rdb          *redis.Client
	resendWindow time.Duration
}

func NewOtpService(repo repository.OtpRepository, rdb *redis.Client) OtpService {
	resend := defaultResendWindow
	if v := os.Getenv("OTP_RESEND_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			resend = d
		}
	}

	return &otpService{repo: repo, rdb: rdb, resendWindow: resend}
}

func (s *otpService) Issue(ctx context.Context, identifier, purpose string) (string, error) {
	key := "otp:send:" + identifier
	ok, err := ratelimiter.CheckAndSet(ctx, s.rdb, key, s.resendWindow)
	if err != nil {
		return "", err
	}
	if !ok {
		retryAfter, ttlErr := ratelimiter.TTL(ctx, s.rdb, key)
		if ttlErr != nil || retryAfter <= 0 {
			retryAfter = s.resendWindow
		}
		rateErr := &ratelimiter.RateLimitError{
			Message:    "please wait before requesting another code",
			RetryAfter: retryAfter,
		}
		return "", apperror.New(http.StatusTooManyRequests, rateErr.Message,
			errors.Join(apperror.ErrRateLimitExceeded, rateErr))
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	record := &entity.OtpLog{
		Identifier: identifier,
		CodeHash:   hashCode(code),
		Purpose:    purpose,
		ExpiresAt:  time.Now().Add(codeTTL),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return "", err
	}

	return code, nil
}

func (s *otpService) Verify(ctx context.Context, identifier, purpose, code string) error {
	record, err := s.repo.FindLatestActive(ctx, identifier, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.InvalidInput("invalid or expired code")
		}
		return err
	}

	if record.IsExpired(time.Now()) {
		return apperror.InvalidInput("code has expired, request a new one")
	}

	if record.Attempts >= maxAttempts {
		return apperror.InvalidInput("too many attempts, request a new code")
	}

	if subtle.ConstantTimeCompare([]byte(record.CodeHash), []byte(hashCode(code))) != 1 {
		record.Attempts++
		if err := s.repo.Save(ctx, record); err != nil {
			log.Printf("Failed to record otp attempt for %s: %v", identifier, err)
		}
		return apperror.InvalidInput("invalid code")
	}

	record.Used = true
	if err := s.repo.Save(ctx, record); err != nil {
		return err
	}

	// A verified user should not sit out the resend window before
	// requesting their next code.
	if err := ratelimiter.Clear(ctx, s.rdb, "otp:send:"+identifier); err != nil {
		log.Printf("Failed to clear otp resend limit for %s: %v", identifier, err)
	}
	return nil
}

func (s *otpService) PurgeExpired(ctx context.Context) error {
	purged, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Printf("Purged %d expired otp codes", purged)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
