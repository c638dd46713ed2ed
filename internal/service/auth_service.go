package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/profile-directory/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

// RoleAdmin is the only role the directory issues.
const RoleAdmin = "admin"

// Claims extends JWT standard claims with the admin role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// AuthService checks the configured admin identity and issues tokens.
type AuthService struct {
	cfg *config.Config
	now func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg, now: time.Now}
}

// SignIn verifies the credentials against the configured admin identity and
// returns a signed token. Any mismatch returns ErrInvalidCredentials.
func (s *AuthService) SignIn(email, password string) (string, error) {
	if err := s.CheckCredentials(email, password); err != nil {
		return "", err
	}
	return s.GenerateAdminToken()
}

// CheckCredentials compares email and password with the configured identity.
// When ADMIN_PASSWORD_HASH is set the password is checked with bcrypt.
func (s *AuthService) CheckCredentials(email, password string) error {
	if s.cfg.AdminEmail == "" || (s.cfg.AdminPassword == "" && s.cfg.AdminPasswordHash == "") {
		return ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(email)), []byte(s.cfg.AdminEmail)) == 1

	var passOK bool
	if s.cfg.AdminPasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	}

	if !emailOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// GenerateAdminToken creates an admin JWT valid for cfg.JWTExpiry.
func (s *AuthService) GenerateAdminToken() (string, error) {
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   s.cfg.AdminEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Role: RoleAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates an admin JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != RoleAdmin {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
