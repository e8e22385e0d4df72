package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andrelz/cryptowallet/internal/api/testutils"
	"github.com/andrelz/cryptowallet/internal/models"
)

func TestConcurrentBuys(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// 50 concurrent buys of 0.01 BTC on the same (user, crypto) pair: every
	// increment must land, so the final balance is exactly 0.50.
	const numBuys = 50

	var wg sync.WaitGroup
	statusChan := make(chan int, numBuys)

	for i := 0; i < numBuys; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := testutils.PerformRequest(
				testCtx.Router,
				http.MethodPost,
				"/api/transactions/buy",
				models.TransactionRequest{CryptoID: "btc", Quantity: decimal.RequireFromString("0.01")},
				testutils.AuthHeaders(testCtx.TestUserJWT),
			)

			statusChan <- w.Code
		}()
	}

	wg.Wait()
	close(statusChan)

	for code := range statusChan {
		assert.Equal(t, http.StatusOK, code)
	}

	wallet := getWallet(t, testCtx)
	assert.Len(t, wallet, 1)
	assert.True(t, wallet[0].Quantity.Equal(decimal.RequireFromString("0.50")),
		"balance should be exactly 0.50, got %s", wallet[0].Quantity)

	history := getHistory(t, testCtx)
	assert.Len(t, history, numBuys)
}

func TestConcurrentSellsNeverOverdraw(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	buy(t, testCtx, "eth", "1.0")

	// 10 concurrent sells of 0.3 ETH against a balance of 1.0: at most 3 can
	// pass the sufficiency check, and the rest must fail cleanly.
	const numSells = 10
	sellQuantity := decimal.RequireFromString("0.3")

	var wg sync.WaitGroup
	statusChan := make(chan int, numSells)

	for i := 0; i < numSells; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := testutils.PerformRequest(
				testCtx.Router,
				http.MethodPost,
				"/api/transactions/sell",
				models.TransactionRequest{CryptoID: "eth", Quantity: sellQuantity},
				testutils.AuthHeaders(testCtx.TestUserJWT),
			)

			statusChan <- w.Code
		}()
	}

	wg.Wait()
	close(statusChan)

	succeeded := 0
	for code := range statusChan {
		if code == http.StatusOK {
			succeeded++
		} else {
			assert.Equal(t, http.StatusBadRequest, code)
		}
	}

	assert.LessOrEqual(t, succeeded, 3, "more sells succeeded than the balance allows")

	// Conservation: bought - sold == remaining balance, never negative
	expected := decimal.RequireFromString("1.0").Sub(sellQuantity.Mul(decimal.NewFromInt(int64(succeeded))))
	assert.False(t, expected.IsNegative())

	wallet := getWallet(t, testCtx)
	if expected.IsZero() {
		assert.Empty(t, wallet)
	} else {
		assert.Len(t, wallet, 1)
		assert.True(t, wallet[0].Quantity.Equal(expected),
			"balance should be %s, got %s", expected, wallet[0].Quantity)
	}
}

func TestConcurrentRegistrationsSameEmail(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Concurrent registrations with an identical email must produce exactly
	// one account.
	const numAttempts = 10

	var wg sync.WaitGroup
	statusChan := make(chan int, numAttempts)

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()

			w := testutils.PerformRequest(
				testCtx.Router,
				http.MethodPost,
				"/api/auth/register",
				models.RegisterRequest{
					Name:     fmt.Sprintf("Racer %d", attempt),
					Email:    "racer@example.com",
					Password: "password123",
				},
				nil,
			)

			statusChan <- w.Code
		}(i)
	}

	wg.Wait()
	close(statusChan)

	succeeded := 0
	for code := range statusChan {
		if code == http.StatusOK {
			succeeded++
		} else {
			assert.Equal(t, http.StatusBadRequest, code)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one concurrent registration should win")

	// A later attempt with the same email is a plain duplicate
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/register",
		models.RegisterRequest{Name: "Late Racer", Email: "racer@example.com", Password: "password123"},
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errorResponse models.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err)
	assert.Equal(t, "DUPLICATE_EMAIL", errorResponse.Code)
}
