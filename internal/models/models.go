package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account. The password field holds the bcrypt
// hash and is never serialized.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Crypto is a catalog entry: a tradeable asset with a fixed BRL unit price.
type Crypto struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Symbol   string          `json:"symbol"`
	PriceBRL decimal.Decimal `json:"price_brl"`
	Icon     string          `json:"icon"`
}

// Balance is the quantity of one asset held by one user. At most one row
// exists per (user, crypto) pair; the quantity may reach zero but the row
// is kept.
type Balance struct {
	UserID   string          `db:"user_id" json:"user_id"`
	CryptoID string          `db:"crypto_id" json:"crypto_id"`
	Quantity decimal.Decimal `db:"quantity" json:"quantity"`
}

// Transaction types.
const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// Transaction is an append-only record of one executed buy or sell. Name and
// symbol are denormalized from the catalog at execution time.
type Transaction struct {
	ID           string          `db:"id" json:"id"`
	UserID       string          `db:"user_id" json:"user_id"`
	CryptoID     string          `db:"crypto_id" json:"crypto_id"`
	CryptoName   string          `db:"crypto_name" json:"crypto_name"`
	CryptoSymbol string          `db:"crypto_symbol" json:"crypto_symbol"`
	Type         string          `db:"transaction_type" json:"transaction_type"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	PriceBRL     decimal.Decimal `db:"price_brl" json:"price_brl"`
	TotalBRL     decimal.Decimal `db:"total_brl" json:"total_brl"`
	Timestamp    time.Time       `db:"timestamp" json:"timestamp"`
}

// WalletItem is one row of the holdings view: a positive balance joined with
// its catalog entry and valued at the current unit price.
type WalletItem struct {
	CryptoID     string          `json:"crypto_id"`
	CryptoName   string          `json:"crypto_name"`
	CryptoSymbol string          `json:"crypto_symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	PriceBRL     decimal.Decimal `json:"price_brl"`
	TotalBRL     decimal.Decimal `json:"total_brl"`
}
