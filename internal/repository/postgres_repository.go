package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/andrelz/cryptowallet/internal/models"
)

// pqUniqueViolation is the Postgres error code raised when an insert hits a
// unique constraint, here the users.email index.
const pqUniqueViolation = "23505"

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.CreatedAt, user.UpdatedAt)

	// Two concurrent registrations with the same email race past the service
	// pre-check; the unique index decides the winner.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return models.ErrDuplicateEmail
	}

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET name = $2, password = $3, updated_at = $4
		WHERE id = $1
	`

	user.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Password, user.UpdatedAt)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrUnknownUser
	}

	return nil
}

// DeleteUser removes the user together with their transactions and balances
// in a single database transaction.
func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = $1`, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM balances WHERE user_id = $1`, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Balance repository methods
func (r *PostgresRepository) GetBalance(ctx context.Context, userID, cryptoID string) (*models.Balance, error) {
	query := `SELECT * FROM balances WHERE user_id = $1 AND crypto_id = $2`

	var balance models.Balance
	err := r.db.GetContext(ctx, &balance, query, userID, cryptoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No balance yet
		}
		return nil, err
	}

	return &balance, nil
}

func (r *PostgresRepository) GetBalances(ctx context.Context, userID string) ([]models.Balance, error) {
	query := `SELECT * FROM balances WHERE user_id = $1 ORDER BY crypto_id`

	var balances []models.Balance
	err := r.db.SelectContext(ctx, &balances, query, userID)
	if err != nil {
		return nil, err
	}

	return balances, nil
}

// Ledger repository methods
//
// RecordBuy appends the transaction and increments the balance as one
// database transaction. The upsert makes the increment atomic, so concurrent
// buys on the same (user, crypto) pair serialize on the row and no update is
// lost.
func (r *PostgresRepository) RecordBuy(ctx context.Context, txn *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	err = insertTransaction(ctx, tx, txn)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO balances (user_id, crypto_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, crypto_id)
		DO UPDATE SET quantity = balances.quantity + EXCLUDED.quantity`,
		txn.UserID, txn.CryptoID, txn.Quantity)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RecordSell decrements the balance with a conditional update and appends the
// transaction, all in one database transaction. The quantity guard in the
// UPDATE is the sufficiency check: when the row is missing or holds less than
// the requested amount no row matches, and the sell fails with
// models.ErrInsufficientBalance. Two concurrent sells therefore can never
// jointly overdraw the pair.
func (r *PostgresRepository) RecordSell(ctx context.Context, txn *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE balances SET quantity = quantity - $3
		WHERE user_id = $1 AND crypto_id = $2 AND quantity >= $3`,
		txn.UserID, txn.CryptoID, txn.Quantity)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		err = models.ErrInsufficientBalance
		return err
	}

	err = insertTransaction(ctx, tx, txn)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	query := `
		SELECT * FROM transactions
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// insertTransaction appends a transaction row within an existing transaction.
func insertTransaction(ctx context.Context, tx *sql.Tx, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}

	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO transactions
			(id, user_id, crypto_id, crypto_name, crypto_symbol, transaction_type, quantity, price_brl, total_brl, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.ExecContext(ctx, query,
		txn.ID, txn.UserID, txn.CryptoID, txn.CryptoName, txn.CryptoSymbol,
		txn.Type, txn.Quantity, txn.PriceBRL, txn.TotalBRL, txn.Timestamp)

	return err
}
