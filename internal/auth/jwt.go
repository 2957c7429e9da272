package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenExpiry is the fixed session token lifetime. There is no server-side
// revocation; invalidation is by expiry only.
const tokenExpiry = 5 * time.Hour

// Principal roles carried in token claims.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Claims are the session token claims for both principal kinds. Name and
// Email are set for clients only.
type Claims struct {
	UserID uuid.UUID `json:"sub"`
	Role   string    `json:"role"`
	Name   string    `json:"name,omitempty"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims belong to an administrator.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// JWTService issues and verifies HS256 session tokens.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a JWT service. The secret is validated as non-empty
// by config.Load before this is ever called.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// SignClientToken creates a session token for a verified client.
func (s *JWTService) SignClientToken(clientID uuid.UUID, name, email string) (string, error) {
	return s.sign(&Claims{
		UserID: clientID,
		Role:   RoleClient,
		Name:   name,
		Email:  email,
	})
}

// SignAdminToken creates a session token tagged with the admin role.
func (s *JWTService) SignAdminToken(adminID uuid.UUID) (string, error) {
	return s.sign(&Claims{
		UserID: adminID,
		Role:   RoleAdmin,
	})
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken checks signature and expiry. Returns ErrTokenExpired for a
// well-formed token past its expiry and ErrInvalidToken for everything else.
func (s *JWTService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleClient && claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
