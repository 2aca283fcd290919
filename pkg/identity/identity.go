// Package identity is the credential collaborator: account records live
// in the KV store, passwords as bcrypt hashes. The HTTP layer only ever
// sees models.User; the stored account (with its hash) never leaves this
// package.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/justin362/distribution-matrix-v2/pkg/kv"
	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

var (
	ErrEmailTaken         = errors.New("identity: email already registered")
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrUserNotFound       = errors.New("identity: user not found")
)

// account is the stored shape of a registered user.
type account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"createdAt"`
}

// Service manages user accounts.
type Service struct {
	store kv.Store
}

// NewService creates an identity service on top of the KV store.
func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

func accountKey(userID string) string {
	return "auth:user:" + userID
}

// Email lookups are case-insensitive: the index key is lower-cased.
func emailKey(email string) string {
	return "auth:email:" + strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account and returns its public identity.
func (s *Service) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("identity: a valid email is required")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("identity: password must be at least 6 characters")
	}

	if _, err := s.store.Get(ctx, emailKey(email)); err == nil {
		return nil, ErrEmailTaken
	} else if err != kv.ErrNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
	}

	acct := account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if err := kv.SetJSON(ctx, s.store, accountKey(acct.ID), acct); err != nil {
		return nil, err
	}
	if err := kv.SetJSON(ctx, s.store, emailKey(email), acct.ID); err != nil {
		return nil, err
	}

	return acct.user(), nil
}

// Authenticate checks credentials and returns the matching identity.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var userID string
	if err := kv.GetJSON(ctx, s.store, emailKey(email), &userID); err != nil {
		if err == kv.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	var acct account
	if err := kv.GetJSON(ctx, s.store, accountKey(userID), &acct); err != nil {
		if err == kv.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return acct.user(), nil
}

// GetUser loads a registered identity by id.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var acct account
	if err := kv.GetJSON(ctx, s.store, accountKey(userID), &acct); err != nil {
		if err == kv.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return acct.user(), nil
}

func (a account) user() *models.User {
	return &models.User{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
	}
}
