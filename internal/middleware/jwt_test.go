package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental/internal/middleware"
	"github.com/iliyamo/movie-rental/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, middleware.JWTAuth(testSecret)(next)(c))
	return rec, c
}

func Test_JWTAuth_ValidTokenInjectsUserID(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 42, 5)
	require.NoError(t, err)

	rec, c := runJWT(t, "Bearer "+access.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	// JWT numeric claims decode as float64.
	assert.EqualValues(t, 42, c.Get("user_id"))
}

func Test_JWTAuth_MissingHeaderRejected(t *testing.T) {
	rec, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_JWTAuth_WrongSecretRejected(t *testing.T) {
	access, err := utils.NewAccessToken("other-secret", 42, 5)
	require.NoError(t, err)

	rec, _ := runJWT(t, "Bearer "+access.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
