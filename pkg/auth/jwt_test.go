package auth

import (
	"testing"
)

func TestTokenPairRoundTrip(t *testing.T) {
	pair, err := GenerateTokenPair("admin", "admin@example.com", "admin", "secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be set")
	}

	claims, err := ValidateAccessToken(pair.AccessToken, "secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != "admin" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "admin")
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "admin@example.com")
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want %q", claims.Role, "admin")
	}
	if claims.JTI == "" {
		t.Error("expected a token id")
	}
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	pair, err := GenerateTokenPair("admin", "admin@example.com", "admin", "secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := ValidateAccessToken(pair.AccessToken, "wrong"); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not-a-token", "secret"); err == nil {
		t.Fatal("expected validation to fail for a malformed token")
	}
}
