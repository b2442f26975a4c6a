package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pywhiz/internal/handler"
	"pywhiz/internal/middleware"
	"pywhiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

// fakeAuth stands in for middleware.Protected; it trusts the test header.
func fakeAuth(c *fiber.Ctx) error {
	if id := c.Get(testUserHeader); id != "" {
		c.Locals(middleware.UserIDKey, id)
	}
	return c.Next()
}

func doJSON(t *testing.T, app *fiber.App, method, path, userID string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(testUserHeader, userID)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), string(raw))
}

type testServices struct {
	content     *MockContentService
	submissions *MockSubmissionService
	mcq         *MockMCQService
	progress    *MockProgressService
	exercises   *MockExerciseService
	users       *MockUserService
	auth        *MockAuthService
}

// newRoutedApp mounts the real route table with fakeAuth in place of bearer validation.
func newRoutedApp() (*fiber.App, *testServices) {
	s := &testServices{
		content:     new(MockContentService),
		submissions: new(MockSubmissionService),
		mcq:         new(MockMCQService),
		progress:    new(MockProgressService),
		exercises:   new(MockExerciseService),
		users:       new(MockUserService),
		auth:        new(MockAuthService),
	}
	v := validation.NewValidator()
	vm := middleware.NewValidationMiddleware(v)

	app := newTestApp()
	handler.Routes{
		Auth:        handler.NewAuthHandler(s.auth, v),
		Users:       handler.NewUserHandler(s.users, v),
		Learn:       handler.NewLearnHandler(s.content, s.submissions, s.mcq, s.progress, s.exercises, v),
		Protected:   fakeAuth,
		SubmitLimit: func(c *fiber.Ctx) error { return c.Next() },
		IDParam:     vm.ValidateIDParam,
	}.Register(app.Group("/api"))
	return app, s
}
