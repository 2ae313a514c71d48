package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/auth"
	"github.com/pkordes/travel-log/internal/domain"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of a user; the password hash never leaves
// the service.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Signup handles POST /api/auth/signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var body domain.Signup
	if !decodeJSON(w, r, &body) {
		return
	}
	user, err := s.auth.Signup(r.Context(), body)
	if errors.Is(err, domain.ErrConflict) {
		writeError(w, http.StatusConflict, "conflict", "email already registered")
		return
	}
	if err != nil {
		serviceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(user))
}

// Login handles POST /api/auth/login with a JSON body.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	s.issueToken(w, r, body.Email, body.Password)
}

// Token handles POST /api/auth/token, the OAuth2 password grant: form fields
// username (the email) and password.
func (s *Server) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		serviceError(w, r, badMultipart(err), "user not found")
		return
	}
	s.issueToken(w, r, r.PostForm.Get("username"), r.PostForm.Get("password"))
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, email, password string) {
	token, err := s.auth.Login(r.Context(), email, password)
	if err != nil {
		serviceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: auth.TokenType})
}

// Me handles GET /api/auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context(), owner(r))
	if err != nil {
		serviceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
