package httpapi

import (
	"net/http"

	"github.com/wealflow/wealflow/internal/common"
	"github.com/wealflow/wealflow/internal/server/models"
	"github.com/wealflow/wealflow/internal/server/services"
)

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Picture  string `json:"picture,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Provider: u.Provider, Picture: u.Picture}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.signIn(w, r, func() (*models.User, *services.TokenPair, error) {
		return s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.signIn(w, r, func() (*models.User, *services.TokenPair, error) {
		return s.users.Login(r.Context(), req.Email, req.Password)
	})
}

func (s *Server) google(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.signIn(w, r, func() (*models.User, *services.TokenPair, error) {
		return s.users.FederatedLogin(r.Context(), req.Token)
	})
}

// signIn runs one of the sign-in flows and, on success, hands the new
// session to the browser as cookies.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, fn func() (*models.User, *services.TokenPair, error)) {
	user, pair, err := fn()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setSessionCookies(w, pair)
	s.logger.Info(r.Context(), "Signed in", "user_id", user.ID, "provider", user.Provider)
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.CurrentUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// logout always succeeds for the caller: revocation failures are logged and
// the cookies are expired regardless.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		if err := s.users.Logout(r.Context(), c.Value); err != nil {
			s.logger.Warn(r.Context(), "refresh token revoke failed", "error", err)
		}
	}
	s.clearSessionCookies(w)
	writeMessage(w, http.StatusOK, true, "Logged out")
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		token = c.Value
	}

	pair, err := s.users.RefreshToken(r.Context(), token)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			s.clearSessionCookies(w)
		}
		s.writeError(w, r, err)
		return
	}
	s.setSessionCookies(w, pair)
	writeMessage(w, http.StatusOK, true, "Token refreshed")
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userIDFrom(r.Context()), req.Name, req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password    string `json:"password"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.users.ChangePassword(r.Context(), userIDFrom(r.Context()), req.Password, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Password updated")
}
