package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWT_clientRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	id := uuid.New()

	token, err := svc.SignClientToken(id, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != id {
		t.Errorf("got user id %s, want %s", claims.UserID, id)
	}
	if claims.Role != RoleClient {
		t.Errorf("got role %q, want %q", claims.Role, RoleClient)
	}
	if claims.IsAdmin() {
		t.Error("client claims should not be admin")
	}
	if claims.Name != "Ada" || claims.Email != "ada@example.com" {
		t.Errorf("unexpected identity claims: %q %q", claims.Name, claims.Email)
	}
}

func TestJWT_adminRole(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.SignAdminToken(uuid.New())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if !claims.IsAdmin() {
		t.Error("admin token should carry the admin role")
	}
}

func TestJWT_wrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").SignClientToken(uuid.New(), "n", "e@example.com")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = NewJWTService("secret-b").VerifyToken(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestJWT_tampered(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.SignClientToken(uuid.New(), "n", "e@example.com")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.VerifyToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
	if _, err := svc.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestJWT_expiry(t *testing.T) {
	svc := NewJWTService("test-secret")
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.SignClientToken(uuid.New(), "n", "e@example.com")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	// Just inside the 5h lifetime.
	svc.now = func() time.Time { return issued.Add(tokenExpiry - time.Minute) }
	if _, err := svc.VerifyToken(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	// Just past it.
	svc.now = func() time.Time { return issued.Add(tokenExpiry + time.Minute) }
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}
