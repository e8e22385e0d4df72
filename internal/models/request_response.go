package models

import "github.com/shopspring/decimal"

// Request models
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is a partial update: empty fields leave the stored
// values untouched.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type TransactionRequest struct {
	CryptoID string          `json:"crypto_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Response models
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type WalletBalanceResponse struct {
	TotalBRL decimal.Decimal `json:"total_brl"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
