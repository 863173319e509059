package loanauth

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rs/xid"
)

// Role scopes a profile's permissions. Only the two values below are
// accepted; anything else is rejected before it can reach storage.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

type ID string

// Profile is one role-scoped credential set belonging to an Account.
// Password always holds the bcrypt hash, never the plaintext.
type Profile struct {
	Username string
	Role     Role
	Password string
}

// Account is one real-world person, unique by email. An account holds at
// most one profile per role.
type Account struct {
	ID        ID
	Name      string
	Email     string
	Profiles  []Profile
	CreatedAt time.Time
}

// Error strings double as the wire-level response messages, so their
// casing is part of the HTTP contract.
var (
	ErrFieldsRequired     = errors.New("All Fields Are Required")
	ErrInvalidRole        = errors.New("Invalid Role")
	ErrExistingProfile    = errors.New("User Already Registered")
	ErrExistingEmail      = errors.New("Email Already Registered")
	ErrNotFound           = errors.New("User Not Found")
	ErrProfileNotFound    = errors.New("Profile With The Given Role Not Found")
	ErrInvalidCredentials = errors.New("Invalid Credentials")
	ErrUnauthenticated    = errors.New("Invalid Or Expired Token")
	ErrStorageUnavailable = errors.New("Storage Unavailable")
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// NewAccount returns an account holding its first profile. Every account
// has at least one profile from the moment it exists.
func NewAccount(name string, email string, p Profile) *Account {
	return &Account{
		ID:        NewID(),
		Name:      name,
		Email:     email,
		Profiles:  []Profile{p},
		CreatedAt: time.Now().UTC(),
	}
}

func (a *Account) HasRole(role Role) bool {
	for _, p := range a.Profiles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// AddProfile appends p, enforcing the one-profile-per-role invariant.
func (a *Account) AddProfile(p Profile) error {
	if a.HasRole(p.Role) {
		return ErrExistingProfile
	}
	a.Profiles = append(a.Profiles, p)
	return nil
}

// FindProfile matches on username AND role. A profile matching only one
// of the two is not a match.
func (a *Account) FindProfile(username string, role Role) (*Profile, error) {
	for i := range a.Profiles {
		if a.Profiles[i].Username == username && a.Profiles[i].Role == role {
			return &a.Profiles[i], nil
		}
	}
	return nil, ErrProfileNotFound
}

func NewID() ID {
	return ID(xid.New().String())
}

func isValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

// Cost 10 matches what the rest of the platform expects of stored hashes.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", errors.New("error hashing password")
	}
	return string(hash), nil
}

func hashMatchesPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
