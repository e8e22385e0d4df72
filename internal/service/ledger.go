package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrelz/cryptowallet/internal/models"
)

// historyLimit caps the number of rows returned by GetHistory.
const historyLimit = 1000

// Buy validates the request against the catalog, prices it at the fixed unit
// price and hands the transaction to the repository, which appends it and
// increments the balance as one atomic unit.
func (s *DefaultService) Buy(ctx context.Context, userID string, req models.TransactionRequest) (*models.Transaction, error) {
	txn, err := s.newTransaction(userID, models.TransactionTypeBuy, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecordBuy(ctx, txn); err != nil {
		return nil, fmt.Errorf("error recording buy: %w", err)
	}

	return txn, nil
}

// Sell is symmetric to Buy; the repository's conditional decrement performs
// the sufficiency check, so a sell past the held quantity fails with
// models.ErrInsufficientBalance and the balance never goes negative.
func (s *DefaultService) Sell(ctx context.Context, userID string, req models.TransactionRequest) (*models.Transaction, error) {
	txn, err := s.newTransaction(userID, models.TransactionTypeSell, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecordSell(ctx, txn); err != nil {
		if errors.Is(err, models.ErrInsufficientBalance) {
			return nil, models.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("error recording sell: %w", err)
	}

	return txn, nil
}

// GetHistory returns the user's transactions, most recent first.
func (s *DefaultService) GetHistory(ctx context.Context, userID string) ([]models.Transaction, error) {
	transactions, err := s.repo.GetTransactions(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("error getting transactions: %w", err)
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return transactions, nil
}

// Wallet methods
//
// GetWallet joins each positive balance with its catalog entry. Zero-quantity
// rows stay in the store but are filtered from the view.
func (s *DefaultService) GetWallet(ctx context.Context, userID string) ([]models.WalletItem, error) {
	balances, err := s.repo.GetBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting balances: %w", err)
	}

	items := []models.WalletItem{}
	for _, balance := range balances {
		crypto, ok := s.catalog.Get(balance.CryptoID)
		if !ok || !balance.Quantity.IsPositive() {
			continue
		}

		items = append(items, models.WalletItem{
			CryptoID:     crypto.ID,
			CryptoName:   crypto.Name,
			CryptoSymbol: crypto.Symbol,
			Quantity:     balance.Quantity,
			PriceBRL:     crypto.PriceBRL,
			TotalBRL:     balance.Quantity.Mul(crypto.PriceBRL),
		})
	}

	return items, nil
}

// GetWalletValue sums quantity × unit price over all balances with exact
// decimal arithmetic, rounding to currency precision only at the boundary.
func (s *DefaultService) GetWalletValue(ctx context.Context, userID string) (*models.WalletBalanceResponse, error) {
	balances, err := s.repo.GetBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting balances: %w", err)
	}

	total := decimal.Zero
	for _, balance := range balances {
		crypto, ok := s.catalog.Get(balance.CryptoID)
		if !ok {
			continue
		}
		total = total.Add(balance.Quantity.Mul(crypto.PriceBRL))
	}

	return &models.WalletBalanceResponse{TotalBRL: total.Round(2)}, nil
}

// newTransaction resolves the asset and validates the quantity, returning a
// priced transaction ready for the repository.
func (s *DefaultService) newTransaction(userID, txType string, req models.TransactionRequest) (*models.Transaction, error) {
	crypto, ok := s.catalog.Get(req.CryptoID)
	if !ok {
		return nil, models.ErrUnknownCrypto
	}

	if !req.Quantity.IsPositive() {
		return nil, models.ErrNonPositiveQuantity
	}

	return &models.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		CryptoID:     crypto.ID,
		CryptoName:   crypto.Name,
		CryptoSymbol: crypto.Symbol,
		Type:         txType,
		Quantity:     req.Quantity,
		PriceBRL:     crypto.PriceBRL,
		TotalBRL:     req.Quantity.Mul(crypto.PriceBRL),
		Timestamp:    time.Now().UTC(),
	}, nil
}
