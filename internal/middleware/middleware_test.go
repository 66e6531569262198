package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/artgalerie/gallery-api/internal/utils"
)

func runThrough(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(ctx)
	return rec, ctx, err
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, ctx, err := runThrough(RequestID(), req)
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, rec.Header().Get("X-Request-ID"), ctx.Get("request_id"))
}

func TestRequestIDHonorsIncomingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id-1")
	rec, _, err := runThrough(RequestID(), req)
	assert.NoError(t, err)
	assert.Equal(t, "upstream-id-1", rec.Header().Get("X-Request-ID"))
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _, err := runThrough(JWTAuth("secret"), req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsBadSignature(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 1, "visitor", 5)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec, _, err := runThrough(JWTAuth("secret"), req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthStoresClaims(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 42, "artist", 5)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec, ctx, err := runThrough(JWTAuth("secret"), req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 42, ctx.Get("user_id"))
	assert.Equal(t, "artist", ctx.Get("category"))
}

func TestRequireCategory(t *testing.T) {
	e := echo.New()

	run := func(category any) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		if category != nil {
			ctx.Set("category", category)
		}
		_ = RequireCategory("artist")(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(ctx)
		return rec
	}

	assert.Equal(t, http.StatusOK, run("artist").Code)
	assert.Equal(t, http.StatusForbidden, run("visitor").Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
}
