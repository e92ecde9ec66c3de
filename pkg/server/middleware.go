package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"igfollowers/pkg/session"
)

const sessionContextKey = "session"

// sessionMiddleware attaches the caller's session, issuing a cookie for new ones
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var id string
		if cookie, err := c.Cookie(s.cfg.Session.CookieName); err == nil && session.ValidID(cookie.Value) {
			id = cookie.Value
		}

		st, created := s.sessions.Ensure(id)
		if created {
			c.SetCookie(&http.Cookie{
				Name:     s.cfg.Session.CookieName,
				Value:    st.ID,
				Path:     "/",
				MaxAge:   int(s.cfg.Session.TTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(sessionContextKey, st)
		return next(c)
	}
}

// currentSession returns the snapshot loaded by sessionMiddleware
func currentSession(c echo.Context) *session.State {
	st, _ := c.Get(sessionContextKey).(*session.State)
	return st
}
