package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContextPasangDeadlineDiUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext())

	var hasDeadline bool
	var deadline time.Time
	app.Get("/x", func(c *fiber.Ctx) error {
		// c.UserContext() adalah context yang diteruskan handler ke
		// DB/service — deadline harus terpasang di sini.
		deadline, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(requestTimeout), deadline, 2*time.Second)
}

func TestRequestContextRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext())
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	t.Run("generate kalau kosong", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("id bawaan client dipertahankan", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/x", nil)
		req.Header.Set("X-Request-ID", "req-123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
	})
}
