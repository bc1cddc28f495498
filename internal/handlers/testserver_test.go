package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anik-barua/devlink/backend/internal/auth"
	"github.com/anik-barua/devlink/backend/internal/middleware"
	"github.com/anik-barua/devlink/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	echo     *echo.Echo
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	posts    *fakePostRepo
	tokens   *auth.TokenService
}

func newTestServer() *testServer {
	e := echo.New()
	e.Validator = validators.NewValidator()

	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	posts := newFakePostRepo()
	tokens := auth.NewTokenService("test-secret")

	public := e.Group("/api")
	protected := e.Group("/api")
	protected.Use(middleware.AuthMiddleware(tokens))

	NewAuthHandler(users, tokens).RegisterAuthRoutes(public, protected)
	NewProfileHandler(profiles, posts, users).RegisterProfileRoutes(public, protected)
	NewPostHandler(posts, users).RegisterPostRoutes(protected)

	return &testServer{
		echo:     e,
		users:    users,
		profiles: profiles,
		posts:    posts,
		tokens:   tokens,
	}
}

// request performs an HTTP request against the test server. The token,
// when given, is sent as the raw Authorization header value.
func (ts *testServer) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}

// registerUser registers a user through the API and returns their token
func (ts *testServer) registerUser(t *testing.T, name, email, password string) string {
	t.Helper()

	rec, body := ts.request(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, body)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
