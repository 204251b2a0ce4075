package integrationtests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthAPI_RegistrationFlow(t *testing.T) {
	router, _, mailer := SetupTestRouter(t)
	client := newAPIClient(t, router)

	resp, w := client.Do(http.MethodPost, "/auth/register", map[string]any{
		"username": "ursula",
		"email":    "ursula@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	user := data(t, resp)
	require.Equal(t, false, user["is_active"])
	require.Len(t, mailer.codes, 1)
	userID := id(t, user)

	// Wrong code leaves the account inactive.
	resp, w = client.Do(http.MethodPost, "/auth/register/verify", map[string]any{
		"code": "000000",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid verification code", resp["message"])

	// A resend mints a fresh code over the same channel.
	_, w = client.Do(http.MethodPost, "/auth/register/resend", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mailer.codes, 2)

	resp, w = client.Do(http.MethodPost, "/auth/register/verify", map[string]any{
		"code": mailer.lastCode(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, data(t, resp)["is_active"])

	resp, w = client.Do(http.MethodGet, fmt.Sprintf("/users/%d/profile", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, data(t, resp)["is_verified"])
}

// Submitting a code without a pending flow in the session is treated as an
// expired session, not as a bad code.
func TestAuthAPI_VerifyWithoutSession(t *testing.T) {
	router, _, _ := SetupTestRouter(t)
	client := newAPIClient(t, router)

	resp, w := client.Do(http.MethodPost, "/auth/register/verify", map[string]any{
		"code": "123456",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "session expired", resp["message"])

	resp, w = client.Do(http.MethodPost, "/auth/login/verify", map[string]any{
		"code": "123456",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "session expired", resp["message"])
}

func TestAuthAPI_LoginFlow(t *testing.T) {
	router, _, mailer := SetupTestRouter(t)
	client := newAPIClient(t, router)

	_, w := client.Do(http.MethodPost, "/auth/register", map[string]any{
		"username": "leguin",
		"email":    "leguin@example.com",
		"password": "passw0rd",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	_, w = client.Do(http.MethodPost, "/auth/register/verify", map[string]any{
		"code": mailer.lastCode(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Correct credentials start the second factor; they do not sign in.
	resp, w := client.Do(http.MethodPost, "/auth/login", map[string]any{
		"username": "leguin",
		"password": "passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "verification code sent", resp["message"])
	require.Len(t, mailer.codes, 2)

	resp, w = client.Do(http.MethodPost, "/auth/login/verify", map[string]any{
		"code": mailer.lastCode(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "logged in successfully", resp["message"])

	_, w = client.Do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthAPI_LoginErrors(t *testing.T) {
	router, _, mailer := SetupTestRouter(t)
	client := newAPIClient(t, router)

	_, w := client.Do(http.MethodPost, "/auth/register", map[string]any{
		"username": "casey",
		"email":    "casey@example.com",
		"password": "right",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Unknown username and wrong password read the same.
	resp, w := client.Do(http.MethodPost, "/auth/login", map[string]any{
		"username": "nobody",
		"password": "right",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid username or password", resp["message"])

	resp, w = client.Do(http.MethodPost, "/auth/login", map[string]any{
		"username": "casey",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid username or password", resp["message"])

	// Correct credentials on an unverified account are a 403.
	resp, w = client.Do(http.MethodPost, "/auth/login", map[string]any{
		"username": "casey",
		"password": "right",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "account has not been verified", resp["message"])

	// Completing registration clears the way.
	_, w = client.Do(http.MethodPost, "/auth/register/verify", map[string]any{
		"code": mailer.lastCode(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	_, w = client.Do(http.MethodPost, "/auth/login", map[string]any{
		"username": "casey",
		"password": "right",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

// Starting a login while a registration is pending replaces the pending flow;
// the registration code can no longer be submitted.
func TestAuthAPI_FlowsDoNotCrossContaminate(t *testing.T) {
	router, _, mailer := SetupTestRouter(t)
	client := newAPIClient(t, router)

	// First account, fully verified, to log in with later.
	_, w := client.Do(http.MethodPost, "/auth/register", map[string]any{
		"username": "settled",
		"email":    "settled@example.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	_, w = client.Do(http.MethodPost, "/auth/register/verify", map[string]any{
		"code": mailer.lastCode(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Second account starts registering in the same browser session.
	_, w = client.Do(http.MethodPost, "/auth/register", map[string]any{
		"username": "newcomer",
		"email":    "newcomer@example.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	registrationCode := mailer.lastCode()

	// A login for the first account replaces the pending registration.
	_, w = client.Do(http.MethodPost, "/auth/login", map[string]any{
		"username": "settled",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp, w := client.Do(http.MethodPost, "/auth/register/verify", map[string]any{
		"code": registrationCode,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "session expired", resp["message"])
}

func TestAuthAPI_UserManagement(t *testing.T) {
	router, db, _ := SetupTestRouter(t)
	client := newAPIClient(t, router)

	alice, _ := seedTraders(t, db)

	// Direct creation skips the verification flow entirely.
	resp, w := client.Do(http.MethodPost, "/users", map[string]any{
		"username": "direct",
		"email":    "direct@example.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, true, data(t, resp)["is_active"])

	resp, w = client.Do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list(t, resp), 3)

	resp, w = client.Do(http.MethodPatch, fmt.Sprintf("/users/%d", alice), map[string]any{
		"first_name": "Alice",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Alice", data(t, resp)["first_name"])

	_, w = client.Do(http.MethodDelete, fmt.Sprintf("/users/%d", alice), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	resp, w = client.Do(http.MethodGet, fmt.Sprintf("/users/%d", alice), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "record not found", resp["message"])
}
