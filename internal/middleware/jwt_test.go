package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ExplorerSKD/BookMyShows/internal/middleware"
	"github.com/ExplorerSKD/BookMyShows/internal/model"
	"github.com/ExplorerSKD/BookMyShows/internal/utils"
)

const testSecret = "test-secret"

func callWith(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (model.Identity, bool, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		ident model.Identity
		ok    bool
	)
	handler := mw(func(c echo.Context) error {
		ident, ok = middleware.Identity(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return ident, ok, rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, string(model.RoleStaff), true, 15)
	require.NoError(t, err)

	ident, ok, rec := callWith(t, middleware.JWTAuth(testSecret), "Bearer "+tok.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), ident.UserID)
	assert.Equal(t, model.RoleStaff, ident.Role)
	assert.True(t, ident.Approved)
}

func TestJWTAuth_MissingToken(t *testing.T) {
	_, ok, rec := callWith(t, middleware.JWTAuth(testSecret), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 42, string(model.RoleCustomer), true, 15)
	require.NoError(t, err)

	_, ok, rec := callWith(t, middleware.JWTAuth(testSecret), "Bearer "+tok.Token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestOptionalJWTAuth_AnonymousPassesThrough(t *testing.T) {
	_, ok, rec := callWith(t, middleware.OptionalJWTAuth(testSecret), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ok)
}

func TestOptionalJWTAuth_TokenAttachesIdentity(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, string(model.RoleCustomer), true, 15)
	require.NoError(t, err)

	ident, ok, rec := callWith(t, middleware.OptionalJWTAuth(testSecret), "Bearer "+tok.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, uint64(7), ident.UserID)
}

func TestRequireCapability(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := middleware.RequireCapability(model.CapValidateTickets)

	cases := []struct {
		name  string
		ident model.Identity
		want  int
	}{
		{"approved staff", model.Identity{UserID: 1, Role: model.RoleStaff, Approved: true}, http.StatusOK},
		{"unapproved staff", model.Identity{UserID: 1, Role: model.RoleStaff, Approved: false}, http.StatusForbidden},
		{"customer", model.Identity{UserID: 1, Role: model.RoleCustomer, Approved: true}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			tok, err := utils.NewAccessToken(testSecret, tc.ident.UserID, string(tc.ident.Role), tc.ident.Approved, 15)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+tok.Token)

			handler := middleware.JWTAuth(testSecret)(mw(next))
			require.NoError(t, handler(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
