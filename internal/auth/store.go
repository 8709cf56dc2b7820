package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken     = errors.New("username already taken")
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrUsernameLength    = errors.New("username must be 3-20 characters")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrMissingCredential = errors.New("username and password required")
)

type Account struct {
	Username  string
	Hash      string
	CreatedAt time.Time
}

// AccountStore is the in-memory account repository. Usernames are
// case-insensitive keys; display casing is preserved.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*Account)}
}

func (s *AccountStore) Register(username, password string) (*Account, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredential
	}
	if len(username) < 3 || len(username) > 20 {
		return nil, ErrUsernameLength
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	key := strings.ToLower(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[key]; exists {
		return nil, ErrUsernameTaken
	}
	acct := &Account{Username: username, Hash: string(hash), CreatedAt: time.Now()}
	s.accounts[key] = acct
	return acct, nil
}

func (s *AccountStore) Verify(username, password string) (*Account, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredential
	}
	s.mu.RLock()
	acct, ok := s.accounts[strings.ToLower(username)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.Hash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return acct, nil
}

func (s *AccountStore) Exists(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[strings.ToLower(username)]
	return ok
}
