package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrelz/cryptowallet/internal/models"
	"github.com/andrelz/cryptowallet/internal/service"
	"github.com/andrelz/cryptowallet/internal/utils"
)

// Handler holds the API handlers and their dependencies
type Handler struct {
	svc    service.Service
	logger *utils.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, logger *utils.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/", h.Root)
	api.GET("/cryptos", h.ListCryptos)

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	protected := api.Group("", AuthMiddleware(h.svc))
	protected.GET("/auth/me", h.Me)
	protected.PUT("/auth/update", h.UpdateUser)
	protected.DELETE("/auth/delete", h.DeleteUser)
	protected.GET("/wallet", h.GetWallet)
	protected.GET("/wallet/balance", h.GetWalletBalance)
	protected.POST("/transactions/buy", h.Buy)
	protected.POST("/transactions/sell", h.Sell)
	protected.GET("/transactions/history", h.GetHistory)
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Crypto Wallet API"})
}

// Auth handlers
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.GetString("userID")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Account deleted successfully"})
}

// Catalog handlers
func (h *Handler) ListCryptos(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListCryptos())
}

// Wallet handlers
func (h *Handler) GetWallet(c *gin.Context) {
	items, err := h.svc.GetWallet(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetWalletBalance(c *gin.Context) {
	balance, err := h.svc.GetWalletValue(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// Transaction handlers
func (h *Handler) Buy(c *gin.Context) {
	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	txn, err := h.svc.Buy(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

func (h *Handler) Sell(c *gin.Context) {
	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	txn, err := h.svc.Sell(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

func (h *Handler) GetHistory(c *gin.Context) {
	transactions, err := h.svc.GetHistory(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// Error translation
//
// errorStatus maps a domain error to its fixed status and code. Anything
// outside the taxonomy is an internal store failure.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrDuplicateEmail):
		return http.StatusBadRequest, "DUPLICATE_EMAIL"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, "TOKEN_EXPIRED"
	case errors.Is(err, models.ErrTokenMalformed):
		return http.StatusUnauthorized, "TOKEN_MALFORMED"
	case errors.Is(err, models.ErrUnknownUser):
		return http.StatusUnauthorized, "UNKNOWN_USER"
	case errors.Is(err, models.ErrUnknownCrypto):
		return http.StatusNotFound, "UNKNOWN_CRYPTO"
	case errors.Is(err, models.ErrNonPositiveQuantity):
		return http.StatusBadRequest, "NON_POSITIVE_QUANTITY"
	case errors.Is(err, models.ErrInsufficientBalance):
		return http.StatusBadRequest, "INSUFFICIENT_BALANCE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

func (h *Handler) respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	})
}
