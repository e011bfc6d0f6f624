package services

import (
	"context"
	"errors"
	"storefront/database"
	"storefront/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

// ==================== MOCKS ====================

// MockUserRepository is a mock implementation of UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

var _ UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) GetUserByID(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByGoogleID(googleID string) (*models.User, error) {
	args := m.Called(googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) LinkGoogleID(userID, googleID string) error {
	args := m.Called(userID, googleID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(userID, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserRole(userID string, role models.Role) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

var _ SessionStore = (*MockSessionStore)(nil)

func (m *MockSessionStore) Create(user *models.User) (*models.Session, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) Get(sessionID string) (*models.Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteForUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return hash
}

// ==================== TESTS ====================

func TestAuthService_Register(t *testing.T) {
	req := models.RegisterRequest{Email: "nena@example.com", Name: " Nena ", Password: "s3cretpass"}

	t.Run("Success - Creates owner and session", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)

		repo.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleOwner && u.Name == "Nena" && CheckPassword(u.PasswordHash, "s3cretpass")
		})).Return(nil)
		repo.On("UpdateLastLogin", mock.AnythingOfType("string")).Return(nil)
		store.On("Create", mock.AnythingOfType("*models.User")).Return(&models.Session{ID: "sess-1"}, nil)

		service := NewAuthService(repo, store, "")
		resp, err := service.Register(req)

		require.NoError(t, err)
		assert.Equal(t, "sess-1", resp.Session.ID)
		assert.Equal(t, models.RoleOwner, resp.User.Role)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Error - Email taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		repo.On("CreateUser", mock.Anything).Return(database.ErrDuplicate)

		service := NewAuthService(repo, store, "")
		_, err := service.Register(req)

		assert.ErrorIs(t, err, ErrEmailTaken)
		store.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash := mustHash(t, "correct-horse")

	tests := []struct {
		name          string
		password      string
		mockSetup     func(*MockUserRepository, *MockSessionStore)
		expectedError error
	}{
		{
			name:     "Success - Valid password",
			password: "correct-horse",
			mockSetup: func(repo *MockUserRepository, store *MockSessionStore) {
				repo.On("GetUserByEmail", "owner@example.com").Return(&models.User{ID: "u1", PasswordHash: hash}, nil)
				repo.On("UpdateLastLogin", "u1").Return(nil)
				store.On("Create", mock.AnythingOfType("*models.User")).Return(&models.Session{ID: "s1", UserID: "u1"}, nil)
			},
		},
		{
			name:     "Error - Wrong password",
			password: "wrong-horse",
			mockSetup: func(repo *MockUserRepository, store *MockSessionStore) {
				repo.On("GetUserByEmail", "owner@example.com").Return(&models.User{ID: "u1", PasswordHash: hash}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Error - Unknown email",
			password: "correct-horse",
			mockSetup: func(repo *MockUserRepository, store *MockSessionStore) {
				repo.On("GetUserByEmail", "owner@example.com").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Error - Google-only account",
			password: "",
			mockSetup: func(repo *MockUserRepository, store *MockSessionStore) {
				repo.On("GetUserByEmail", "owner@example.com").Return(&models.User{ID: "u1", GoogleID: "g1"}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Error - Disabled account",
			password: "correct-horse",
			mockSetup: func(repo *MockUserRepository, store *MockSessionStore) {
				repo.On("GetUserByEmail", "owner@example.com").Return(&models.User{ID: "u1", PasswordHash: hash, Disabled: true}, nil)
			},
			expectedError: ErrAccountDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			store := new(MockSessionStore)
			tt.mockSetup(repo, store)

			service := NewAuthService(repo, store, "")
			resp, err := service.Login("owner@example.com", tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "s1", resp.Session.ID)
			}

			repo.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginWithIDToken(t *testing.T) {
	validator := func(sub, email string, verified bool) TokenValidator {
		return func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			if token != "good-token" || audience != "client-id" {
				return nil, errors.New("bad token")
			}
			return &idtoken.Payload{
				Subject: sub,
				Claims:  map[string]interface{}{"email": email, "name": "Nena", "email_verified": verified},
			}, nil
		}
	}

	t.Run("Error - Not configured", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), new(MockSessionStore), "")
		_, err := service.LoginWithIDToken(context.Background(), "good-token")
		assert.ErrorIs(t, err, ErrGoogleLoginDisabled)
	})

	t.Run("Error - Invalid token", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), new(MockSessionStore), "client-id").
			WithTokenValidator(validator("g1", "nena@example.com", true))
		_, err := service.LoginWithIDToken(context.Background(), "forged")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Error - Unverified email", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), new(MockSessionStore), "client-id").
			WithTokenValidator(validator("g1", "nena@example.com", false))
		_, err := service.LoginWithIDToken(context.Background(), "good-token")
		assert.ErrorIs(t, err, ErrInvalidUserInfo)
	})

	t.Run("Success - Links existing email account", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		repo.On("GetUserByGoogleID", "g1").Return(nil, nil)
		repo.On("GetUserByEmail", "nena@example.com").Return(&models.User{ID: "u1", Email: "nena@example.com"}, nil)
		repo.On("LinkGoogleID", "u1", "g1").Return(nil)
		repo.On("UpdateLastLogin", "u1").Return(nil)
		store.On("Create", mock.AnythingOfType("*models.User")).Return(&models.Session{ID: "s1"}, nil)

		service := NewAuthService(repo, store, "client-id").WithTokenValidator(validator("g1", "nena@example.com", true))
		resp, err := service.LoginWithIDToken(context.Background(), "good-token")

		require.NoError(t, err)
		assert.Equal(t, "g1", resp.User.GoogleID)
		repo.AssertExpectations(t)
	})

	t.Run("Success - Creates new owner", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		repo.On("GetUserByGoogleID", "g2").Return(nil, nil)
		repo.On("GetUserByEmail", "new@example.com").Return(nil, nil)
		repo.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
			return u.GoogleID == "g2" && u.PasswordHash == "" && u.Role == models.RoleOwner
		})).Return(nil)
		repo.On("UpdateLastLogin", mock.AnythingOfType("string")).Return(nil)
		store.On("Create", mock.AnythingOfType("*models.User")).Return(&models.Session{ID: "s2"}, nil)

		service := NewAuthService(repo, store, "client-id").WithTokenValidator(validator("g2", "new@example.com", true))
		resp, err := service.LoginWithIDToken(context.Background(), "good-token")

		require.NoError(t, err)
		assert.Equal(t, "s2", resp.Session.ID)
		repo.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hash := mustHash(t, "old-password")

	t.Run("Success - Rotates sessions", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		repo.On("GetUserByID", "u1").Return(&models.User{ID: "u1", PasswordHash: hash}, nil)
		repo.On("UpdatePassword", "u1", mock.AnythingOfType("string")).Return(nil)
		store.On("DeleteForUser", "u1").Return(nil)
		store.On("Create", mock.AnythingOfType("*models.User")).Return(&models.Session{ID: "fresh"}, nil)

		service := NewAuthService(repo, store, "")
		sess, err := service.ChangePassword("u1", models.ChangePasswordRequest{
			CurrentPassword: "old-password",
			NewPassword:     "new-password",
		})

		require.NoError(t, err)
		assert.Equal(t, "fresh", sess.ID)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Error - Wrong current password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetUserByID", "u1").Return(&models.User{ID: "u1", PasswordHash: hash}, nil)

		service := NewAuthService(repo, new(MockSessionStore), "")
		_, err := service.ChangePassword("u1", models.ChangePasswordRequest{
			CurrentPassword: "guess",
			NewPassword:     "new-password",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})
}

func TestAuthService_CreateSuperAdmin(t *testing.T) {
	t.Run("Promotes existing account", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetUserByEmail", "root@example.com").Return(&models.User{ID: "u1", Role: models.RoleOwner}, nil)
		repo.On("SetUserRole", "u1", models.RoleSuperAdmin).Return(nil)
		repo.On("UpdatePassword", "u1", mock.AnythingOfType("string")).Return(nil)

		service := NewAuthService(repo, new(MockSessionStore), "")
		user, created, err := service.CreateSuperAdmin("root@example.com", "Root", "password123")

		require.NoError(t, err)
		assert.False(t, created)
		assert.True(t, user.IsSuperAdmin())
		repo.AssertExpectations(t)
	})

	t.Run("Creates new account", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetUserByEmail", "root@example.com").Return(nil, nil)
		repo.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleSuperAdmin
		})).Return(nil)

		service := NewAuthService(repo, new(MockSessionStore), "")
		_, created, err := service.CreateSuperAdmin("root@example.com", "Root", "password123")

		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertExpectations(t)
	})
}

func TestAuthService_GetSessionInfo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		mockSetup     func(*MockSessionStore)
		expectedError error
	}{
		{
			name: "Success - Get session info",
			mockSetup: func(store *MockSessionStore) {
				store.On("Get", "session123").Return(&models.Session{ID: "session123", ExpiresAt: now.Add(time.Hour)}, nil)
			},
		},
		{
			name: "Error - Session not found (returns nil)",
			mockSetup: func(store *MockSessionStore) {
				store.On("Get", "session123").Return(nil, nil)
			},
			expectedError: ErrSessionNotFound,
		},
		{
			name: "Error - Session store error",
			mockSetup: func(store *MockSessionStore) {
				store.On("Get", "session123").Return(nil, errors.New("database error"))
			},
			expectedError: ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockSessionStore)
			tt.mockSetup(store)

			service := &AuthService{sessionStore: store}
			sess, err := service.GetSessionInfo("session123")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, sess)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "session123", sess.ID)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := HashPassword(strings.Repeat("é", 36))
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, strings.Repeat("é", 36)))
}
