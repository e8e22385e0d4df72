package catalog

import (
	"github.com/andrelz/cryptowallet/internal/models"
	"github.com/shopspring/decimal"
)

// Catalog is the static list of tradeable assets. Prices are fixed
// configuration loaded at startup; the catalog is never mutated.
type Catalog struct {
	cryptos []models.Crypto
	byID    map[string]models.Crypto
}

// New builds a catalog from the given entries.
func New(cryptos []models.Crypto) *Catalog {
	byID := make(map[string]models.Crypto, len(cryptos))
	for _, c := range cryptos {
		byID[c.ID] = c
	}
	return &Catalog{cryptos: cryptos, byID: byID}
}

// Default returns the built-in asset list with fixed BRL prices.
func Default() *Catalog {
	return New([]models.Crypto{
		{ID: "btc", Name: "Bitcoin", Symbol: "BTC", PriceBRL: decimal.RequireFromString("350000.00"), Icon: "₿"},
		{ID: "eth", Name: "Ethereum", Symbol: "ETH", PriceBRL: decimal.RequireFromString("18500.00"), Icon: "Ξ"},
		{ID: "bnb", Name: "Binance Coin", Symbol: "BNB", PriceBRL: decimal.RequireFromString("2100.00"), Icon: "BNB"},
		{ID: "ada", Name: "Cardano", Symbol: "ADA", PriceBRL: decimal.RequireFromString("3.50"), Icon: "ADA"},
		{ID: "sol", Name: "Solana", Symbol: "SOL", PriceBRL: decimal.RequireFromString("650.00"), Icon: "SOL"},
	})
}

// Get looks up an asset by id. The second return value reports whether the
// asset exists.
func (c *Catalog) Get(id string) (models.Crypto, bool) {
	crypto, ok := c.byID[id]
	return crypto, ok
}

// List returns all assets in catalog order.
func (c *Catalog) List() []models.Crypto {
	out := make([]models.Crypto, len(c.cryptos))
	copy(out, c.cryptos)
	return out
}
