package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrelz/cryptowallet/internal/api"
	"github.com/andrelz/cryptowallet/internal/catalog"
	"github.com/andrelz/cryptowallet/internal/models"
	"github.com/andrelz/cryptowallet/internal/repository"
	"github.com/andrelz/cryptowallet/internal/service"
	"github.com/andrelz/cryptowallet/internal/utils"
)

// TestJWTSecret signs tokens in tests; it must match the service secret.
const TestJWTSecret = "test-secret-key"

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  repository.Repository
	Service     service.Service
	Catalog     *catalog.Catalog
	TestUserID  string
	TestUserJWT string
}

// SetupTestContext creates a new test context with initialized dependencies.
// Tests run against the in-memory repository, which implements the same
// atomicity contract as the Postgres one.
func SetupTestContext(t *testing.T) *TestContext {
	repo := repository.NewMemoryRepository()
	cat := catalog.Default()

	// Create service
	svc := service.NewDefaultService(repo, cat, TestJWTSecret, 24*time.Hour)

	// Create API handler
	handler := api.NewHandler(svc, utils.NewLogger())

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Set up routes
	handler.SetupRoutes(router)

	// Create test user
	testUserID, token := createTestUser(t, repo)

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		Catalog:     cat,
		TestUserID:  testUserID,
		TestUserJWT: token,
	}
}

// Helper functions
func createTestUser(t *testing.T, repo repository.Repository) (string, string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    "testuser@example.com",
		Name:     "Test User",
		Password: string(hashedPassword),
	}

	err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	return user.ID, SignToken(t, user.ID, time.Now().Add(24*time.Hour))
}

// SignToken creates a token for the given subject with the given expiry,
// signed with the test secret.
func SignToken(t *testing.T, userID string, expiry time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": expiry.Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(TestJWTSecret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
