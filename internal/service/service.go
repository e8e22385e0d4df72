package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrelz/cryptowallet/internal/catalog"
	"github.com/andrelz/cryptowallet/internal/models"
	"github.com/andrelz/cryptowallet/internal/repository"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
	VerifyToken(tokenString string) (string, error)

	// Profile
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error

	// Catalog
	ListCryptos() []models.Crypto

	// Wallet
	GetWallet(ctx context.Context, userID string) ([]models.WalletItem, error)
	GetWalletValue(ctx context.Context, userID string) (*models.WalletBalanceResponse, error)

	// Ledger operations
	Buy(ctx context.Context, userID string, req models.TransactionRequest) (*models.Transaction, error)
	Sell(ctx context.Context, userID string, req models.TransactionRequest) (*models.Transaction, error)
	GetHistory(ctx context.Context, userID string) ([]models.Transaction, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo    repository.Repository
	catalog *catalog.Catalog
	hasher  CredentialHasher
	tokens  TokenCodec
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, cat *catalog.Catalog, jwtSecret string, tokenDuration time.Duration) Service {
	return &DefaultService{
		repo:    repo,
		catalog: cat,
		hasher:  bcryptHasher{},
		tokens:  newJWTCodec(jwtSecret, tokenDuration),
	}
}

// Authentication methods
func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, models.ErrDuplicateEmail
	}

	// Hash the password
	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// Create the user. The store enforces email uniqueness for the case
	// where two registrations race past the check above.
	user := &models.User{
		Email:    email,
		Name:     req.Name,
		Password: hashedPassword,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, models.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.tokenResponse(user)
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	// Get the user
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	// Fail the same way for an unknown email and a wrong password.
	if user == nil || !s.hasher.Verify(user.Password, req.Password) {
		return nil, models.ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// VerifyToken validates a bearer token and returns the embedded user id.
func (s *DefaultService) VerifyToken(tokenString string) (string, error) {
	return s.tokens.Verify(tokenString)
}

// Profile methods
func (s *DefaultService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	// Tokens outlive account deletion, so the subject may no longer exist.
	if user == nil {
		return nil, models.ErrUnknownUser
	}

	return user, nil
}

func (s *DefaultService) UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Partial update: absent fields leave existing values untouched.
	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Password != "" {
		hashedPassword, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hashedPassword
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

func (s *DefaultService) DeleteUser(ctx context.Context, userID string) error {
	// The repository cascades the delete to the user's transactions and
	// balances.
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	return nil
}

// Catalog methods
func (s *DefaultService) ListCryptos() []models.Crypto {
	return s.catalog.List()
}

// Helper methods
func (s *DefaultService) tokenResponse(user *models.User) (*models.TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        *user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
