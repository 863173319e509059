package loanauth

import "context"

type Service interface {
	Register(ctx context.Context, req registerRequest) (string, error)
	Login(ctx context.Context, req loginRequest) (*loginResponse, error)
	GetUserAndProfile(ctx context.Context, token string) (*accountResponse, error)
	Logout(ctx context.Context, token string) error
}

type Repository interface {
	FindByID(ctx context.Context, id ID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Store(ctx context.Context, acc *Account) error
	// AppendProfile atomically re-checks the per-role invariant at the
	// storage layer and appends p; a racing same-role append loses with
	// ErrExistingProfile instead of overwriting the winner.
	AppendProfile(ctx context.Context, id ID, p Profile) error
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

type profileResponse struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// accountResponse is what get_user_and_profile returns: the account and
// every profile under it, password hashes stripped.
type accountResponse struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Profiles []profileResponse `json:"profiles"`
}
