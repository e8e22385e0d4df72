package api_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrelz/cryptowallet/internal/api/testutils"
	"github.com/andrelz/cryptowallet/internal/models"
)

func TestRegister(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful registration returns a token and the user
	registerReq := models.RegisterRequest{
		Name:     "New User",
		Email:    "newuser@example.com",
		Password: "Password123",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/register",
		registerReq,
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var tokenResponse models.TokenResponse
	err := json.Unmarshal(w.Body.Bytes(), &tokenResponse)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenResponse.AccessToken)
	assert.Equal(t, "bearer", tokenResponse.TokenType)
	assert.Equal(t, "newuser@example.com", tokenResponse.User.Email)
	assert.NotEmpty(t, tokenResponse.User.ID)

	// Test case 2: Duplicate email
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/register",
		registerReq,
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errorResponse models.ErrorResponse
	err = json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err)
	assert.Equal(t, "DUPLICATE_EMAIL", errorResponse.Code)

	// Test case 3: Same email with different casing is still a duplicate
	registerReq.Email = "NewUser@Example.com"
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/register",
		registerReq,
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 4: Invalid request (missing required fields)
	invalidReq := models.RegisterRequest{
		Email: "invalid@example.com",
		// Missing password and name
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/register",
		invalidReq,
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful login
	loginReq := models.LoginRequest{
		Email:    "testuser@example.com",
		Password: "testpassword",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		loginReq,
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var tokenResponse models.TokenResponse
	err := json.Unmarshal(w.Body.Bytes(), &tokenResponse)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenResponse.AccessToken)
	assert.Equal(t, testCtx.TestUserID, tokenResponse.User.ID)

	// Test case 2: Wrong password
	invalidLoginReq := models.LoginRequest{
		Email:    "testuser@example.com",
		Password: "wrongpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		invalidLoginReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Unknown email fails with the same status and code
	nonExistentUserReq := models.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "testpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		nonExistentUserReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var errorResponse models.ErrorResponse
	err = json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", errorResponse.Code)
}

func TestGetProfile(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/auth/me",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	err := json.Unmarshal(w.Body.Bytes(), &user)
	assert.NoError(t, err)
	assert.Equal(t, testCtx.TestUserID, user.ID)
	assert.Equal(t, "testuser@example.com", user.Email)
	assert.Equal(t, "Test User", user.Name)
}

func TestUpdateProfile(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Update the name only
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/auth/update",
		models.UpdateUserRequest{Name: "Updated Name"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	err := json.Unmarshal(w.Body.Bytes(), &user)
	assert.NoError(t, err)
	assert.Equal(t, "Updated Name", user.Name)
	assert.Equal(t, "testuser@example.com", user.Email)

	// Update the password and log in with it
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/auth/update",
		models.UpdateUserRequest{Password: "newpassword123"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		models.LoginRequest{Email: "testuser@example.com", Password: "newpassword123"},
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	// The old password no longer works
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		models.LoginRequest{Email: "testuser@example.com", Password: "testpassword"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteAccount(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		"/api/auth/delete",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	// The token is still validly signed but its subject is gone: every
	// protected call must now fail with UNKNOWN_USER.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/auth/me",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var errorResponse models.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err)
	assert.Equal(t, "UNKNOWN_USER", errorResponse.Code)
}

func TestAuthFailures(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Missing Authorization header
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/wallet",
		nil,
		nil,
	)

	assert.Equal(t, http.StatusForbidden, w.Code)

	// Wrong header format
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/wallet",
		nil,
		map[string]string{"Authorization": testCtx.TestUserJWT},
	)

	assert.Equal(t, http.StatusForbidden, w.Code)

	// Malformed token
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/wallet",
		nil,
		testutils.AuthHeaders("not-a-token"),
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var errorResponse models.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err)
	assert.Equal(t, "TOKEN_MALFORMED", errorResponse.Code)

	// Expired token
	expired := testutils.SignToken(t, testCtx.TestUserID, time.Now().Add(-time.Hour))

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/wallet",
		nil,
		testutils.AuthHeaders(expired),
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err)
	assert.Equal(t, "TOKEN_EXPIRED", errorResponse.Code)
}
