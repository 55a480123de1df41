package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"recipehub/internal/models"
	"recipehub/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDWithoutPassword(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(id string, role models.Role) error {
	args := m.Called(id, role)
	return args.Error(0)
}

func (m *MockUserRepository) RecordLogin(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, nil).Once()
	mockRepo.On("Count").Return(int64(5), nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(user)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// The stored password is a bcrypt hash verifying the plaintext.
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("wrongpassword")))

	// Not the first registrant, so no privilege is granted.
	assert.Equal(t, models.RoleUser, user.Role)

	// Username already taken
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrDuplicateUsername)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_FirstRegistrantBecomesAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	first := &models.User{Username: "founder", Email: "founder@example.com", Password: "password123"}
	mockRepo.On("GetByUsername", first.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", first.Email).Return(nil, nil).Once()
	mockRepo.On("Count").Return(int64(0), nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(first)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)

	// A later registrant asking for admin still gets the user role.
	second := &models.User{Username: "sneaky", Email: "sneaky@example.com", Password: "password123", Role: models.RoleAdmin}
	mockRepo.On("GetByUsername", second.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", second.Email).Return(nil, nil).Once()
	mockRepo.On("Count").Return(int64(1), nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err = authService.RegisterUser(second)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.Role)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleUser,
		IsActive: true,
	}

	// Successful login
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	mockRepo.On("RecordLogin", user.ID).Return(nil).Once()

	token, loggedIn, err := authService.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, okClaims := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, okClaims)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, _, err = authService.LoginUser("testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown user gets the same generic error
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, fmt.Errorf("not found")).Once()
	_, _, err = authService.LoginUser("nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Deactivated account cannot log in
	inactive := &models.User{ID: "user-456", Username: "ghost", Password: string(hashedPassword), IsActive: false}
	mockRepo.On("GetByUsername", "ghost").Return(inactive, nil).Once()
	_, _, err = authService.LoginUser("ghost", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	issueWithExpiry := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":  "user-123",
			"username": "testuser",
			"exp":      exp.Unix(),
		})
		signed, _ := token.SignedString([]byte(testJWTSecret))
		return signed
	}

	// Valid token within its window resolves to the issuing identity.
	userID, err := authService.ValidateToken(issueWithExpiry(time.Now().Add(time.Hour)))
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Garbage is an invalid token, never a partial identity.
	userID, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.Empty(t, userID)

	// Wrong secret
	otherService := services.NewAuthService(mockRepo, "other_secret")
	wrongSecretToken, _ := otherService.IssueToken(&models.User{ID: "user-123", Username: "testuser"})
	userID, err = authService.ValidateToken(wrongSecretToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.Empty(t, userID)

	// Expired token is distinguished from a malformed one.
	userID, err = authService.ValidateToken(issueWithExpiry(time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, services.ErrTokenExpired)
	assert.Empty(t, userID)
}

func TestAuthService_IssueAndValidateRoundTrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{ID: "user-789", Username: "roundtrip", Role: models.RoleModerator}
	token, err := authService.IssueToken(user)
	assert.NoError(t, err)

	userID, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_ChangeRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	mockRepo.On("UpdateRole", "user-123", models.RoleModerator).Return(nil).Once()
	err := authService.ChangeRole("user-123", models.RoleModerator)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Unknown role values are rejected before touching the store.
	err = authService.ChangeRole("user-123", models.Role("superuser"))
	assert.ErrorIs(t, err, services.ErrValidation)
	mockRepo.AssertExpectations(t)
}
