package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/taskdesk/internal/logger"
	"github.com/dtroode/taskdesk/internal/model"
)

// SignupAPI registers users with the backend.
type SignupAPI interface {
	Signup(ctx context.Context, req model.SignupRequest) (model.User, error)
}

// AdminCredentials is the fixed administrator record.
type AdminCredentials struct {
	Email    string
	Password string
}

const adminDisplayName = "Admin"

// Auth resolves credentials into sessions and tracks the session lifecycle:
// anonymous -> authenticating -> authenticated | auth_error, and back to
// anonymous on logout.
type Auth struct {
	sessions   *Sessions
	records    *Records
	tokens     model.TokenManager
	signupAPI  SignupAPI
	admin      AdminCredentials
	logger     *logger.Logger
	bcryptCost int

	mu    sync.Mutex
	state model.SessionState
}

func NewAuth(
	sessions *Sessions,
	records *Records,
	tokens model.TokenManager,
	signupAPI SignupAPI,
	admin AdminCredentials,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		sessions:   sessions,
		records:    records,
		tokens:     tokens,
		signupAPI:  signupAPI,
		admin:      admin,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		state:      model.StateAnonymous,
	}
}

// State returns the current lifecycle state.
func (a *Auth) State() model.SessionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Auth) setState(s model.SessionState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// Login checks email and password against the admin record first and the
// stored credential records second. Any prior session is replaced.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Session{}, fmt.Errorf("%w: email and password are required", model.ErrValidation)
	}

	a.setState(model.StateAuthenticating)
	a.logger.Debug("Auth service: starting login",
		"email", email)

	session, err := a.resolve(ctx, email, password)
	if err != nil {
		a.setState(model.StateAuthError)
		if errors.Is(err, model.ErrInvalidCredentials) {
			a.logger.Info("Auth service: login rejected",
				"email", email)
		} else {
			a.logger.Error("Auth service: login failed",
				"email", email,
				"error", err.Error())
		}
		return model.Session{}, err
	}

	session.Token, err = a.tokens.Issue(session)
	if err != nil {
		a.setState(model.StateAuthError)
		return model.Session{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	if err := a.sessions.Save(ctx, session); err != nil {
		a.setState(model.StateAuthError)
		a.logger.Error("Auth service: failed to persist session",
			"email", email,
			"error", err.Error())
		return model.Session{}, err
	}

	a.setState(model.StateAuthenticated)
	a.logger.Info("Auth service: login completed",
		"email", email,
		"role", session.Role)

	return session, nil
}

func (a *Auth) resolve(ctx context.Context, email, password string) (model.Session, error) {
	if a.isAdmin(email, password) {
		return model.Session{
			Role:        model.RoleAdmin,
			Email:       a.admin.Email,
			DisplayName: adminDisplayName,
		}, nil
	}

	rec, err := a.records.Get(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get credential record: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return model.Session{}, model.ErrInvalidCredentials
	}

	role := rec.Role
	if !role.Valid() {
		role = model.RoleUser
	}

	return model.Session{
		Role:        role,
		UserID:      rec.ID,
		Email:       rec.Email,
		DisplayName: rec.Name,
	}, nil
}

func (a *Auth) isAdmin(email, password string) bool {
	if a.admin.Email == "" || a.admin.Password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.admin.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.admin.Password)) == 1
	return emailOK && passwordOK
}

// Signup registers the user with the backend and, once the backend accepted
// it, keeps a credential record so that the user can log in.
func (a *Auth) Signup(ctx context.Context, name, email, password string) (model.CredentialRecord, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return model.CredentialRecord{}, fmt.Errorf("%w: name, email and password are required", model.ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return model.CredentialRecord{}, fmt.Errorf("%w: %q", model.ErrInvalidEmail, email)
	}

	a.logger.Debug("Auth service: starting signup",
		"email", email)

	user, err := a.signupAPI.Signup(ctx, model.SignupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		a.logger.Error("Auth service: signup rejected by backend",
			"email", email,
			"error", err.Error())
		return model.CredentialRecord{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return model.CredentialRecord{}, fmt.Errorf("failed to hash password: %w", err)
	}

	rec := model.CredentialRecord{
		ID:           user.ID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if user.Role.Valid() {
		rec.Role = user.Role
	}

	if err := a.records.Put(ctx, rec); err != nil {
		a.logger.Error("Auth service: failed to store credential record",
			"email", email,
			"error", err.Error())
		return model.CredentialRecord{}, err
	}

	a.logger.Info("Auth service: signup completed",
		"email", email,
		"user_id", rec.ID)

	return rec, nil
}

// Logout clears every identity key.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		a.logger.Error("Auth service: failed to clear session",
			"error", err.Error())
		return err
	}

	a.setState(model.StateAnonymous)
	a.logger.Info("Auth service: logged out")
	return nil
}

// Restore reads the stored session and aligns the lifecycle state with it.
func (a *Auth) Restore(ctx context.Context) (model.Session, error) {
	session, err := a.sessions.Load(ctx)
	switch {
	case err == nil:
		a.setState(model.StateAuthenticated)
	case errors.Is(err, model.ErrMissingSession):
		a.setState(model.StateAnonymous)
	}
	return session, err
}

// Inspect parses a session token for display.
func (a *Auth) Inspect(token string) (model.TokenClaims, error) {
	return a.tokens.Parse(token)
}
