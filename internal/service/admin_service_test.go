package service

import (
	"context"
	"testing"

	"github.com/jatinbhagat/decipherworld-backend/pkg/auth"
)

func newTestAdminService(password string) *AdminService {
	return NewAdminService(nil, nil, nil, nil, "admin@decipherworld.com", password, "test-secret")
}

func TestAdminLogin(t *testing.T) {
	svc := newTestAdminService("s3cret")
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin@decipherworld.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("login should return both tokens")
	}

	claims, err := auth.ValidateAccessToken(pair.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %s, want admin", claims.Role)
	}
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAdminService("s3cret")
	ctx := context.Background()

	if _, err := svc.Login(ctx, "admin@decipherworld.com", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "other@example.com", "s3cret"); err != ErrInvalidCredentials {
		t.Errorf("wrong email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAdminLoginDisabledWithoutPassword(t *testing.T) {
	svc := newTestAdminService("")

	if _, err := svc.Login(context.Background(), "admin@decipherworld.com", ""); err != ErrInvalidCredentials {
		t.Errorf("login with unset password: got %v, want ErrInvalidCredentials", err)
	}
}
