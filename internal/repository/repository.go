package repository

import (
	"context"

	"github.com/andrelz/cryptowallet/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy.
//
// Lookup methods return (nil, nil) when the row does not exist. RecordBuy and
// RecordSell are the atomic ledger operations: each couples the append of a
// transaction record with the balance mutation for the same (user, crypto)
// pair, so that concurrent calls on one pair serialize and never lose an
// update or overdraw past zero. CreateUser must reject a concurrent duplicate
// email with models.ErrDuplicateEmail.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error

	// Balance operations
	GetBalance(ctx context.Context, userID, cryptoID string) (*models.Balance, error)
	GetBalances(ctx context.Context, userID string) ([]models.Balance, error)

	// Ledger operations
	RecordBuy(ctx context.Context, tx *models.Transaction) error
	RecordSell(ctx context.Context, tx *models.Transaction) error
	GetTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
}
