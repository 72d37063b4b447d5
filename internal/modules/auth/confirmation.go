package auth

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
	"regexp"
	"strings"
	"time"

	"eventhub/internal/domain"

	"gorm.io/gorm"
)

const maxConfirmAttempts = 5

var codeRegex = regexp.MustCompile(`^\d{6}$`)

type ConfirmRequestResult struct {
	Status string
}

// RequestEmailConfirmation issues (or reissues) a 6-digit code. Always
// answers "accepted" for unknown or already-confirmed emails so the endpoint
// cannot be used to probe for accounts.
func (s *Service) RequestEmailConfirmation(ctx context.Context, email string) (*ConfirmRequestResult, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("confirm/request: email not found (masked)")
			return &ConfirmRequestResult{Status: "accepted"}, nil
		}
		return nil, err
	}

	if user.IsConfirmed {
		log.Printf("confirm/request: already confirmed user_id=%d", user.ID)
		return &ConfirmRequestResult{Status: "accepted"}, nil
	}

	now := time.Now()
	current, err := s.codes.GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		cooldownUntil := current.LastSentAt.Add(s.confirmResendCooldown)
		if cooldownUntil.After(now) {
			return nil, ErrRateLimitExceeded
		}
	}

	code, genErr := generateConfirmationCode()
	if genErr != nil {
		return nil, genErr
	}

	row := &domain.EmailConfirmationCode{
		UserID:     user.ID,
		CodeHash:   hashConfirmationCode(code, s.confirmCodePepper),
		LastSentAt: now,
		ExpiresAt:  now.Add(s.confirmCodeTTL),
	}
	if err := s.codes.Save(ctx, row); err != nil {
		return nil, err
	}

	if mailErr := s.mailer.SendConfirmationCode(ctx, user.Email, code); mailErr != nil {
		return nil, mailErr
	}

	return &ConfirmRequestResult{Status: "accepted"}, nil
}

func (s *Service) ConfirmEmail(ctx context.Context, email, code string) error {
	if !codeRegex.MatchString(code) {
		return ErrInvalidConfirmationCodeFormat
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidConfirmationCode
		}
		return err
	}

	row, err := s.codes.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidConfirmationCode
		}
		return err
	}

	now := time.Now()
	if row.UsedAt != nil || !row.ExpiresAt.After(now) {
		return ErrInvalidConfirmationCode
	}
	if row.Attempts >= maxConfirmAttempts {
		return ErrTooManyAttempts
	}

	expected := hashConfirmationCode(code, s.confirmCodePepper)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(row.CodeHash)) != 1 {
		if err := s.codes.IncrementAttempts(ctx, user.ID); err != nil {
			return err
		}
		return ErrInvalidConfirmationCode
	}

	if err := s.codes.MarkUsed(ctx, user.ID); err != nil {
		return err
	}
	return s.users.MarkConfirmed(ctx, user.ID)
}

func generateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashConfirmationCode(code, pepper string) string {
	sum := sha256.Sum256([]byte(code + pepper))
	return hex.EncodeToString(sum[:])
}
