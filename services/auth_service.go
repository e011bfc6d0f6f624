package services

import (
	"context"
	"errors"
	"storefront/database"
	"storefront/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

// TokenValidator validates a Google ID token for an audience
type TokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// AuthService handles authentication business logic
type AuthService struct {
	repo           UserRepository
	sessionStore   SessionStore
	googleClientID string
	validateToken  TokenValidator
}

// NewAuthService creates a new auth service.
// Google sign-in is only available when googleClientID is set.
func NewAuthService(repo UserRepository, sessionStore SessionStore, googleClientID string) *AuthService {
	return &AuthService{
		repo:           repo,
		sessionStore:   sessionStore,
		googleClientID: googleClientID,
		validateToken:  idtoken.Validate,
	}
}

// WithTokenValidator replaces the Google ID token validator
func (as *AuthService) WithTokenValidator(v TokenValidator) *AuthService {
	as.validateToken = v
	return as
}

// LoginResponse contains the session and the logged in user
type LoginResponse struct {
	Session *models.Session
	User    *models.User
}

// Register creates a store owner account and logs it in
func (as *AuthService) Register(req models.RegisterRequest) (*LoginResponse, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         models.RoleOwner,
		CreatedAt:    time.Now().UTC(),
	}
	if err := as.repo.CreateUser(user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return as.startSession(user)
}

// Login handles email and password login
func (as *AuthService) Login(email, password string) (*LoginResponse, error) {
	user, err := as.repo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	// Google-only accounts have no password hash and never match
	if user == nil || user.PasswordHash == "" || !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, ErrAccountDisabled
	}

	return as.startSession(user)
}

// LoginWithIDToken handles login via a Google ID token
func (as *AuthService) LoginWithIDToken(ctx context.Context, idToken string) (*LoginResponse, error) {
	if as.googleClientID == "" {
		return nil, ErrGoogleLoginDisabled
	}

	payload, err := as.validateToken(ctx, idToken, as.googleClientID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	googleID := payload.Subject

	if googleID == "" || email == "" || !verified {
		return nil, ErrInvalidUserInfo
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	user, err := as.findOrCreateGoogleUser(googleID, email, name)
	if err != nil {
		return nil, err
	}
	if user.Disabled {
		return nil, ErrAccountDisabled
	}

	return as.startSession(user)
}

// findOrCreateGoogleUser matches by Google ID, then by email (linking the account), else creates an owner
func (as *AuthService) findOrCreateGoogleUser(googleID, email, name string) (*models.User, error) {
	user, err := as.repo.GetUserByGoogleID(googleID)
	if err != nil || user != nil {
		return user, err
	}

	user, err = as.repo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := as.repo.LinkGoogleID(user.ID, googleID); err != nil {
			return nil, err
		}
		user.GoogleID = googleID
		return user, nil
	}

	user = &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		GoogleID:  googleID,
		Role:      models.RoleOwner,
		CreatedAt: time.Now().UTC(),
	}
	if err := as.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (as *AuthService) startSession(user *models.User) (*LoginResponse, error) {
	sess, err := as.sessionStore.Create(user)
	if err != nil {
		return nil, err
	}

	// Not fatal: the login itself succeeded
	_ = as.repo.UpdateLastLogin(user.ID)

	return &LoginResponse{Session: sess, User: user}, nil
}

// Logout handles user logout
func (as *AuthService) Logout(sessionID string) error {
	return as.sessionStore.Delete(sessionID)
}

// GetSessionInfo returns current session information
func (as *AuthService) GetSessionInfo(sessionID string) (*models.Session, error) {
	sess, err := as.sessionStore.Get(sessionID)
	if err != nil || sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Me returns the user behind a session
func (as *AuthService) Me(userID string) (*models.User, error) {
	user, err := as.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
// Every session of the user is ended and a fresh one is returned.
func (as *AuthService) ChangePassword(userID string, req models.ChangePasswordRequest) (*models.Session, error) {
	user, err := as.Me(userID)
	if err != nil {
		return nil, err
	}
	if user.PasswordHash != "" && !CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return nil, ErrInvalidCredentials
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := as.repo.UpdatePassword(userID, hash); err != nil {
		return nil, err
	}

	if err := as.sessionStore.DeleteForUser(userID); err != nil {
		return nil, err
	}
	return as.sessionStore.Create(user)
}

// CreateSuperAdmin creates a super admin, or promotes and resets an existing account with that email
func (as *AuthService) CreateSuperAdmin(email, name, password string) (*models.User, bool, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	existing, err := as.repo.GetUserByEmail(email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if err := as.repo.SetUserRole(existing.ID, models.RoleSuperAdmin); err != nil {
			return nil, false, err
		}
		if err := as.repo.UpdatePassword(existing.ID, hash); err != nil {
			return nil, false, err
		}
		existing.Role = models.RoleSuperAdmin
		return existing, false, nil
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := as.repo.CreateUser(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// ResetPassword sets a new password for the account with the given email and ends its sessions
func (as *AuthService) ResetPassword(email, password string) (*models.User, error) {
	user, err := as.repo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := as.repo.UpdatePassword(user.ID, hash); err != nil {
		return nil, err
	}
	if err := as.sessionStore.DeleteForUser(user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
