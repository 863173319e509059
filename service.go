package loanauth

import (
	"context"
	"fmt"
	"time"

	"github.com/credlens/loanauth/session"
)

type service struct {
	accounts Repository
	sessions session.Store
	tokens   *Tokens
}

func NewService(accounts Repository, sessions session.Store, tokens *Tokens) Service {
	return &service{accounts: accounts, sessions: sessions, tokens: tokens}
}

// Register creates an account on first sight of an email, or appends a
// profile for a new role to an existing account. The returned string is
// the response message; the two success paths are told apart by it.
func (svc *service) Register(ctx context.Context, req registerRequest) (string, error) {
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Role == "" || req.Password == "" {
		return "", ErrFieldsRequired
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		return "", err
	}

	acc, err := svc.accounts.FindByEmail(ctx, req.Email)
	if err != nil && err != ErrNotFound {
		return "", err
	}

	if acc != nil {
		if acc.HasRole(role) {
			return "", ErrExistingProfile
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return "", err
		}
		// The store re-checks the role under its own guard; the loser of
		// a concurrent same-role registration surfaces ErrExistingProfile.
		if err := svc.accounts.AppendProfile(ctx, acc.ID, Profile{Username: req.Username, Role: role, Password: hash}); err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s profile to existing user", role), nil
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return "", err
	}

	acc = NewAccount(req.Name, req.Email, Profile{Username: req.Username, Role: role, Password: hash})
	// Store relies on the unique email index to decide races between
	// concurrent first registrations; the loser sees ErrExistingEmail.
	if err := svc.accounts.Store(ctx, acc); err != nil {
		return "", err
	}
	return "Registered User Successfully", nil
}

func (svc *service) Login(ctx context.Context, req loginRequest) (*loginResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, ErrFieldsRequired
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	acc, err := svc.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	p, err := acc.FindProfile(req.Username, role)
	if err != nil {
		return nil, err
	}

	if !hashMatchesPassword(p.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	tokenString, claims, err := svc.tokens.Issue(acc, p)
	if err != nil {
		return nil, err
	}

	s := session.Session{
		ID:        claims.Id,
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Role:      claims.Role,
		IssuedAt:  time.Unix(claims.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}
	if err := svc.sessions.Put(ctx, s); err != nil {
		return nil, err
	}

	return &loginResponse{
		Message:  "Login Successful",
		Token:    tokenString,
		Role:     p.Role,
		Username: p.Username,
	}, nil
}

// GetUserAndProfile resolves a bearer token to its account. The token must
// verify AND its session must still exist, so a logged-out token is dead
// even though it would still pass the signature check.
func (svc *service) GetUserAndProfile(ctx context.Context, token string) (*accountResponse, error) {
	claims, err := svc.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	acc, err := svc.accounts.FindByID(ctx, ID(claims.AccountID))
	if err == ErrNotFound {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	profiles := make([]profileResponse, 0, len(acc.Profiles))
	for _, p := range acc.Profiles {
		profiles = append(profiles, profileResponse{Username: p.Username, Role: p.Role})
	}
	return &accountResponse{Name: acc.Name, Email: acc.Email, Profiles: profiles}, nil
}

func (svc *service) Logout(ctx context.Context, token string) error {
	claims, err := svc.resolveSession(ctx, token)
	if err != nil {
		return err
	}
	return svc.sessions.Delete(ctx, claims.Id)
}

func (svc *service) resolveSession(ctx context.Context, token string) (*Claims, error) {
	claims, err := svc.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	if _, err := svc.sessions.Find(ctx, claims.Id); err != nil {
		if err == session.ErrNotFound {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return claims, nil
}
