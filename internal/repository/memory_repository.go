package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andrelz/cryptowallet/internal/models"
)

// MemoryRepository implements the Repository interface with in-process maps.
// It honors the same contract as the Postgres implementation: email
// uniqueness decided under a lock, and per-(user, crypto) serialization of
// the ledger read-modify-write. Operations on disjoint pairs take disjoint
// pair locks and do not block each other.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	emails map[string]string // email -> user id

	balMu    sync.RWMutex
	balances map[string]map[string]models.Balance // user id -> crypto id -> balance

	txnMu        sync.RWMutex
	transactions map[string][]models.Transaction // user id -> append-ordered log

	pairMu    sync.Mutex
	pairLocks map[string]*sync.Mutex
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:        make(map[string]*models.User),
		emails:       make(map[string]string),
		balances:     make(map[string]map[string]models.Balance),
		transactions: make(map[string][]models.Transaction),
		pairLocks:    make(map[string]*sync.Mutex),
	}
}

// pairLock returns the mutex serializing ledger operations on one
// (user, crypto) pair, creating it on first use.
func (r *MemoryRepository) pairLock(userID, cryptoID string) *sync.Mutex {
	key := userID + "/" + cryptoID

	r.pairMu.Lock()
	defer r.pairMu.Unlock()

	lock, ok := r.pairLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.pairLocks[key] = lock
	}
	return lock
}

// User repository methods
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	// Uniqueness check and insert under one lock: of two concurrent
	// registrations with the same email exactly one wins.
	if _, exists := r.emails[user.Email]; exists {
		return models.ErrDuplicateEmail
	}

	stored := *user
	r.users[user.ID] = &stored
	r.emails[user.Email] = user.ID

	return nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[email]
	if !ok {
		return nil, nil
	}

	user := *r.users[id]
	return &user, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, nil
	}

	user := *stored
	return &user, nil
}

func (r *MemoryRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return models.ErrUnknownUser
	}

	stored.Name = user.Name
	stored.Password = user.Password
	stored.UpdatedAt = time.Now().UTC()
	user.UpdatedAt = stored.UpdatedAt

	return nil
}

func (r *MemoryRepository) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	if user, ok := r.users[id]; ok {
		delete(r.emails, user.Email)
		delete(r.users, id)
	}
	r.mu.Unlock()

	r.balMu.Lock()
	delete(r.balances, id)
	r.balMu.Unlock()

	r.txnMu.Lock()
	delete(r.transactions, id)
	r.txnMu.Unlock()

	return nil
}

// Balance repository methods
func (r *MemoryRepository) GetBalance(ctx context.Context, userID, cryptoID string) (*models.Balance, error) {
	r.balMu.RLock()
	defer r.balMu.RUnlock()

	balance, ok := r.balances[userID][cryptoID]
	if !ok {
		return nil, nil
	}

	return &balance, nil
}

func (r *MemoryRepository) GetBalances(ctx context.Context, userID string) ([]models.Balance, error) {
	r.balMu.RLock()
	defer r.balMu.RUnlock()

	balances := make([]models.Balance, 0, len(r.balances[userID]))
	for _, balance := range r.balances[userID] {
		balances = append(balances, balance)
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].CryptoID < balances[j].CryptoID
	})

	return balances, nil
}

// Ledger repository methods
func (r *MemoryRepository) RecordBuy(ctx context.Context, txn *models.Transaction) error {
	lock := r.pairLock(txn.UserID, txn.CryptoID)
	lock.Lock()
	defer lock.Unlock()

	r.balMu.Lock()
	byCrypto, ok := r.balances[txn.UserID]
	if !ok {
		byCrypto = make(map[string]models.Balance)
		r.balances[txn.UserID] = byCrypto
	}

	balance := byCrypto[txn.CryptoID]
	balance.UserID = txn.UserID
	balance.CryptoID = txn.CryptoID
	balance.Quantity = balance.Quantity.Add(txn.Quantity)
	byCrypto[txn.CryptoID] = balance
	r.balMu.Unlock()

	r.appendTransaction(txn)
	return nil
}

func (r *MemoryRepository) RecordSell(ctx context.Context, txn *models.Transaction) error {
	lock := r.pairLock(txn.UserID, txn.CryptoID)
	lock.Lock()
	defer lock.Unlock()

	r.balMu.Lock()
	balance, ok := r.balances[txn.UserID][txn.CryptoID]
	if !ok || balance.Quantity.LessThan(txn.Quantity) {
		r.balMu.Unlock()
		return models.ErrInsufficientBalance
	}

	// Quantity may reach exactly zero; the row is kept.
	balance.Quantity = balance.Quantity.Sub(txn.Quantity)
	r.balances[txn.UserID][txn.CryptoID] = balance
	r.balMu.Unlock()

	r.appendTransaction(txn)
	return nil
}

func (r *MemoryRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	r.txnMu.RLock()
	log := r.transactions[userID]
	transactions := make([]models.Transaction, 0, len(log))
	for i := len(log) - 1; i >= 0; i-- {
		transactions = append(transactions, log[i])
	}
	r.txnMu.RUnlock()

	// Most recent first; equal timestamps fall back to reverse append order.
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Timestamp.After(transactions[j].Timestamp)
	})

	if limit > 0 && len(transactions) > limit {
		transactions = transactions[:limit]
	}

	return transactions, nil
}

func (r *MemoryRepository) appendTransaction(txn *models.Transaction) {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}

	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}

	r.txnMu.Lock()
	r.transactions[txn.UserID] = append(r.transactions[txn.UserID], *txn)
	r.txnMu.Unlock()
}
