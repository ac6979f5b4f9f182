package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"planboard/internal/models"
)

func registerDemoUser(t *testing.T, auth AuthService) *models.User {
	t.Helper()
	user, err := auth.Register(context.Background(), RegisterParams{
		Email:    "demo@example.com",
		Name:     "Demo",
		Password: "demo1234",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	f := newBenchFixture(t)
	user := registerDemoUser(t, f.auth)

	if user.Role != models.RoleTester {
		t.Fatalf("role = %q, want %q", user.Role, models.RoleTester)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked in response")
	}

	doc, err := f.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Users) != 1 {
		t.Fatalf("users = %d, want 1", len(doc.Users))
	}
	stored := doc.Users[0]
	if stored.PasswordHash == "" || strings.Contains(stored.PasswordHash, "demo1234") {
		t.Fatalf("stored hash = %q", stored.PasswordHash)
	}
	if !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("hash format = %q", stored.PasswordHash)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newBenchFixture(t)
	registerDemoUser(t, f.auth)

	_, err := f.auth.Register(context.Background(), RegisterParams{
		Email:    "Demo@Example.com",
		Password: "other123",
	})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLogin_IssuesParsableAccessToken(t *testing.T) {
	f := newBenchFixture(t)
	user := registerDemoUser(t, f.auth)

	result, err := f.auth.Login(context.Background(), "demo@example.com", "demo1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.UserID != user.ID {
		t.Fatalf("user id = %q, want %q", result.UserID, user.ID)
	}

	claims, err := f.auth.ParseAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Issuer != "planboard-test" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newBenchFixture(t)
	registerDemoUser(t, f.auth)

	_, err := f.auth.Login(context.Background(), "demo@example.com", "wrong-password")
	if !errors.Is(err, ErrUserPasswordMismatch) {
		t.Fatalf("err = %v, want ErrUserPasswordMismatch", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newBenchFixture(t)

	_, err := f.auth.Login(context.Background(), "nobody@example.com", "whatever1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestParseAccessToken_RejectsForeignToken(t *testing.T) {
	f := newBenchFixture(t)
	registerDemoUser(t, f.auth)

	other := NewAuthService(zerolog.Nop(), f.store, "planboard-test", []byte("different-key"), 0)
	result, err := f.auth.Login(context.Background(), "demo@example.com", "demo1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err = other.ParseAccessToken(result.AccessToken); err == nil {
		t.Fatal("expected token signed with another key to fail")
	}
}

func TestAPIToken_RoundTrip(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()
	user := registerDemoUser(t, f.auth)

	created, err := f.auth.CreateToken(ctx, user.ID, "ci token")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if !strings.HasPrefix(created.Secret, created.Token.ID+".") {
		t.Fatalf("secret = %q, want <id>.<secret> form", created.Secret)
	}

	owner, err := f.auth.VerifyAPIToken(ctx, created.Secret)
	if err != nil {
		t.Fatalf("VerifyAPIToken: %v", err)
	}
	if owner.ID != user.ID {
		t.Fatalf("owner = %q, want %q", owner.ID, user.ID)
	}

	tokens, err := f.auth.ListTokens(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Name != "ci token" {
		t.Fatalf("tokens = %+v", tokens)
	}
	if tokens[0].TokenHash != "" {
		t.Fatal("token hash leaked in listing")
	}
	if tokens[0].LastUsedAt == nil {
		t.Fatal("verify must refresh last used timestamp")
	}
}

func TestVerifyAPIToken_RejectsTamperedSecret(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()
	user := registerDemoUser(t, f.auth)

	created, err := f.auth.CreateToken(ctx, user.ID, "ci token")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	if _, err = f.auth.VerifyAPIToken(ctx, created.Token.ID+".bogus"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("tampered secret: err = %v, want ErrTokenInvalid", err)
	}
	if _, err = f.auth.VerifyAPIToken(ctx, "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("malformed token: err = %v, want ErrTokenInvalid", err)
	}
}

func TestDeleteToken_RevokesAccess(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()
	user := registerDemoUser(t, f.auth)

	created, err := f.auth.CreateToken(ctx, user.ID, "ci token")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if err = f.auth.DeleteToken(ctx, created.Token.ID); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}

	if _, err = f.auth.VerifyAPIToken(ctx, created.Secret); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}
