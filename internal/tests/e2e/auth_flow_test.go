package e2e

import (
	"context"
	"net/http"
	"strings"

	"nutriapp/internal/apiclient"
)

func (s *APISuite) TestRegister_NeverReturnsPassword() {
	c := s.client()
	resp, err := c.Do(context.Background(), http.MethodPost, "/api/register", map[string]string{
		"firstName": "Lucia", "lastName": "Perez", "email": "Lucia@NutriApp.com",
		"nationality": "CL", "phone": "5552222222", "password": "lucia-secret",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotContains(strings.ToLower(string(resp.Body)), "password")
	s.NotContains(string(resp.Body), "lucia-secret")

	var body struct {
		User apiclient.User `json:"user"`
	}
	s.Require().NoError(resp.Decode(&body))
	s.Equal("lucia@nutriapp.com", body.User.Email)
	s.NotZero(body.User.ID)
	s.Nil(c.SessionCookie(), "registration does not log in")
}

func (s *APISuite) TestRegister_DuplicateEmail() {
	_, err := s.client().Register(context.Background(), apiclient.RegisterRequest{
		FirstName: "Dup", LastName: "User", Email: "TEST@nutriapp.com",
		Nationality: "MX", Phone: "1", Password: "whatever",
	})
	s.Require().Error(err)
	s.Equal(http.StatusConflict, apiclient.StatusCode(err))
	s.Contains(err.Error(), "El email ya está registrado")
}

func (s *APISuite) TestRegister_MissingFields() {
	resp, err := s.client().Do(context.Background(), http.MethodPost, "/api/register", map[string]string{
		"email": "partial@nutriapp.com", "password": "x",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"error":"Missing fields"}`, string(resp.Body))
}

func (s *APISuite) TestLogin() {
	ctx := context.Background()

	s.Run("valid credentials set an HttpOnly session cookie", func() {
		resp, err := s.client().Do(ctx, http.MethodPost, "/api/login", map[string]string{
			"email": fixtureEmail, "password": fixturePassword,
		})
		s.Require().NoError(err)
		s.Equal(http.StatusOK, resp.StatusCode)
		setCookie := resp.Header.Get("Set-Cookie")
		s.Contains(setCookie, "session=")
		s.Contains(setCookie, "HttpOnly")
		s.NotContains(string(resp.Body), "password")
	})

	for _, tc := range []struct{ name, email, password string }{
		{"wrong password", fixtureEmail, "nope"},
		{"unknown email", "ghost@nutriapp.com", fixturePassword},
	} {
		s.Run(tc.name, func() {
			c := s.client()
			_, err := c.Login(ctx, tc.email, tc.password)
			s.Require().Error(err)
			s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err))
			s.Nil(c.SessionCookie())

			_, err = c.ListDishes(ctx)
			s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err))
		})
	}

	s.Run("missing fields", func() {
		resp, err := s.client().Do(ctx, http.MethodPost, "/api/login", map[string]string{"email": fixtureEmail})
		s.Require().NoError(err)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *APISuite) TestLogout_RevokesSession() {
	ctx := context.Background()
	c := s.loggedIn()
	token := c.SessionCookie().Value

	_, err := c.ListDishes(ctx)
	s.Require().NoError(err)

	s.Require().NoError(c.Logout(ctx))
	s.Nil(c.SessionCookie())

	// Replaying the old cookie must not work.
	c.SetSessionCookie(token)
	_, err = c.ListDishes(ctx)
	s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err))
}

func (s *APISuite) TestLogout_WithoutSession() {
	s.NoError(s.client().Logout(context.Background()))
}

func (s *APISuite) TestSessionLimit_DropsOldest() {
	ctx := context.Background()
	first := s.loggedIn()
	second := s.loggedIn()
	third := s.loggedIn()

	_, err := first.ListDishes(ctx)
	s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err), "oldest session evicted")

	_, err = second.ListDishes(ctx)
	s.NoError(err)
	_, err = third.ListDishes(ctx)
	s.NoError(err)
}

func (s *APISuite) TestForgedCookieIsRejected() {
	c := s.client()
	c.SetSessionCookie("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.forged")
	_, err := c.ListDishes(context.Background())
	s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err))
}

func (s *APISuite) TestHealth() {
	resp, err := s.client().Do(context.Background(), http.MethodGet, "/healthz", nil)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"status":"ok"}`, string(resp.Body))
}

func (s *APISuite) TestRegister_PasswordOverBcryptLimit() {
	ctx := context.Background()
	c := s.client()
	resp, err := c.Do(ctx, http.MethodPost, "/api/register", map[string]string{
		"firstName": "Largo", "lastName": "Clave", "email": "long@nutriapp.com",
		"nationality": "MX", "phone": "5553333333", "password": strings.Repeat("a", 80),
	})
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"error":"Missing fields"}`, string(resp.Body))

	_, err = c.Login(ctx, "long@nutriapp.com", strings.Repeat("a", 80))
	s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err), "no account was created")

	_, err = c.Register(ctx, apiclient.RegisterRequest{
		FirstName: "Largo", LastName: "Clave", Email: "long@nutriapp.com",
		Nationality: "MX", Phone: "5553333333", Password: strings.Repeat("a", 72),
	})
	s.NoError(err, "72 bytes is still accepted")
}

func (s *APISuite) TestDeletedUser_SessionRejected() {
	ctx := context.Background()
	email := "gone@example.com"
	c := s.newUser(email)

	_, err := c.ListDishes(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.db.Exec("DELETE FROM users WHERE email = ?", email).Error)

	_, err = c.ListDishes(ctx)
	s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err))
}

func (s *APISuite) TestSessionStoreOutage_Is500() {
	if s.mr == nil {
		s.T().Skip("sessions are in the SQL database")
	}
	ctx := context.Background()
	c := s.loggedIn()

	s.mr.SetError("LOADING Redis is loading the dataset in memory")
	defer s.mr.SetError("")

	resp, err := c.Do(ctx, http.MethodGet, "/api/dishes", nil)
	s.Require().NoError(err)
	s.Equal(http.StatusInternalServerError, resp.StatusCode, "an outage must not look like a logout")
	s.JSONEq(`{"error":"Error interno del servidor"}`, string(resp.Body))
	s.NotNil(c.SessionCookie(), "cookie survives the outage")

	s.mr.SetError("")
	_, err = c.ListDishes(ctx)
	s.NoError(err)
}
