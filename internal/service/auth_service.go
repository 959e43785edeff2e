package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/JYunth/wattswap-sim-backend/internal/meter"
	"github.com/JYunth/wattswap-sim-backend/internal/models"
	"github.com/JYunth/wattswap-sim-backend/internal/repository"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrAuthUnavailable = errors.New("operator store not configured")
	ErrForbidden       = errors.New("meter outside operator scope")
)

// AuthService handles operator sign-up, token issuance and the
// per-meter scope check behind every command.
type AuthService struct {
	operators  repository.Operators
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(repo repository.Operators, signingKey string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{operators: repo, signingKey: []byte(signingKey), tokenTTL: ttl}
}

// SignUp hashes password and creates an operator scoped to meters. An
// empty meters list lets the operator command every meter.
func (s *AuthService) SignUp(ctx context.Context, username, password string, meters []string) (int, error) {
	if s.operators == nil {
		return 0, ErrAuthUnavailable
	}
	scope, err := normalizeScope(meters)
	if err != nil {
		return 0, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	return s.operators.Create(ctx, username, hash, scope)
}

// Authorize reports ErrForbidden when meterID is outside the operator's
// scope and ErrUserNotFound when the account no longer exists.
func (s *AuthService) Authorize(ctx context.Context, operatorID int, meterID string) error {
	if s.operators == nil {
		return ErrAuthUnavailable
	}
	op, err := s.operators.GetByID(ctx, operatorID)
	if errors.Is(err, models.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !op.CanOperate(meterID) {
		return fmt.Errorf("%w: operator %d on meter %s", ErrForbidden, operatorID, meterID)
	}
	return nil
}

// normalizeScope trims, validates, sorts and deduplicates meter ids.
func normalizeScope(meters []string) ([]string, error) {
	scope := make([]string, 0, len(meters))
	for _, id := range meters {
		id = strings.TrimSpace(id)
		if !meter.ValidID(id) {
			return nil, models.Invalid("meters", "invalid meter id %q", id)
		}
		scope = append(scope, id)
	}
	slices.Sort(scope)
	return slices.Compact(scope), nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// GenerateToken validates credentials and returns JWT
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	if s.operators == nil {
		return "", ErrAuthUnavailable
	}
	op, err := s.operators.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	if err := verifyPassword(op.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(op.ID, time.Now())
}

// ParseToken parses JWT and returns the operator id.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueToken(userID int, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString(s.signingKey)
}
