package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"recipehub/internal/models"
	"recipehub/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 12

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 7 * 24 * time.Hour, // Token valid for 7 days
	}
}

// RegisterUser registers a new user, hashes their password, and saves them
// to the database. The very first registered user becomes an admin; every
// later registrant gets the user role regardless of what the request asked
// for.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("%w: '%s'", ErrDuplicateUsername, user.Username)
	}
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return fmt.Errorf("%w: '%s'", ErrDuplicateEmail, user.Email)
	}

	total, err := s.userRepo.Count()
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if total == 0 {
		user.Role = models.RoleAdmin
	} else {
		user.Role = models.RoleUser
	}
	user.IsActive = true

	// Hashing happens exactly here, once per plaintext. Repositories only
	// ever see the hash.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.userRepo.RecordLogin(user.ID); err != nil {
		log.Printf("Failed to record login for user %s: %v", user.ID, err)
	}

	return token, user, nil
}

// IssueToken signs an HS256 JWT carrying the user's identity.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the embedded
// user ID. Expired tokens are reported as ErrTokenExpired, every other
// failure as ErrInvalidToken; a broken token never yields a partial
// identity.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// GetUserForRequest resolves a verified token identity against the store,
// omitting the password hash. A stale identity (deleted or deactivated
// user) fails resolution.
func (s *AuthService) GetUserForRequest(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithoutPassword(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}
	if !user.IsActive {
		return nil, ErrNotFound
	}
	return user, nil
}

// ChangeRole sets a user's role to one of the known values.
func (s *AuthService) ChangeRole(userID string, role models.Role) error {
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if err := s.userRepo.UpdateRole(userID, role); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to change role for user %s: %w", userID, err)
	}
	return nil
}
