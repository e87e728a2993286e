package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyKey(t *testing.T) {
	auth, err := NewAuth("super-secret")
	require.NoError(t, err)

	assert.True(t, auth.VerifyKey("super-secret"))
	assert.False(t, auth.VerifyKey("Super-Secret"))
	assert.False(t, auth.VerifyKey(""))
}

func TestIssueAndVerifyToken(t *testing.T) {
	auth, err := NewAuth("super-secret")
	require.NoError(t, err)

	token, err := auth.IssueToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, auth.VerifyToken(token))
	assert.Error(t, auth.VerifyToken(token+"x"))
	assert.Error(t, auth.VerifyToken("not.a.token"))
}

func TestTokensDieWithTheProcess(t *testing.T) {
	// Two instances derive different secrets even for the same key
	first, err := NewAuth("super-secret")
	require.NoError(t, err)
	second, err := NewAuth("super-secret")
	require.NoError(t, err)

	token, err := first.IssueToken()
	require.NoError(t, err)
	assert.Error(t, second.VerifyToken(token))
}

func TestBouncer(t *testing.T) {
	auth, err := NewAuth("super-secret")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(auth.Bouncer())
	app.Get("/guarded", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := auth.IssueToken()
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
