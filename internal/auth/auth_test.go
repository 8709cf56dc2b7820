package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	token, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	username, ok := svc.Authenticate(token)
	if !ok || username != "alice" {
		t.Fatalf("authenticate = %q, %v", username, ok)
	}
}

func TestTokenRejection(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, ok := svc.Authenticate(""); ok {
		t.Error("empty token accepted")
	}
	if _, ok := svc.Authenticate("not-a-jwt"); ok {
		t.Error("garbage token accepted")
	}

	other := NewTokenService("other-secret", time.Hour)
	token, _ := other.Issue("mallory")
	if _, ok := svc.Authenticate(token); ok {
		t.Error("token signed with a different secret accepted")
	}
}

func TestAccountRegisterValidation(t *testing.T) {
	s := NewAccountStore()
	cases := []struct {
		username, password string
		want               error
	}{
		{"", "secret1", ErrMissingCredential},
		{"alice", "", ErrMissingCredential},
		{"al", "secret1", ErrUsernameLength},
		{"thisusernameiswaytoolong", "secret1", ErrUsernameLength},
		{"alice", "short", ErrPasswordTooShort},
	}
	for _, c := range cases {
		if _, err := s.Register(c.username, c.password); !errors.Is(err, c.want) {
			t.Errorf("Register(%q, %q) err = %v, want %v", c.username, c.password, err, c.want)
		}
	}
}

func TestAccountLifecycle(t *testing.T) {
	s := NewAccountStore()
	if _, err := s.Register("Alice", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.Register("alice", "another1"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate register err = %v", err)
	}
	if !s.Exists("ALICE") {
		t.Error("exists lookup should be case-insensitive")
	}
	acct, err := s.Verify("alice", "secret1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if acct.Username != "Alice" {
		t.Errorf("display casing lost: %q", acct.Username)
	}
	if _, err := s.Verify("alice", "wrongpass"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("bad password err = %v", err)
	}
	if _, err := s.Verify("nobody", "secret1"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
}
