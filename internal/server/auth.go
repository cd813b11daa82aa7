package server

import (
	"net/http"
	"strings"
	"time"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      *authdomain.User `json:"user"`
}

func (s *Server) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.signUp(c, req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (s *Server) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.login(c, req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": loginResponse{
		Token:     result.RawToken,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	}})
}

func (s *Server) Logout(c *gin.Context) {
	if err := s.logout(c); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (s *Server) signUp(c *gin.Context, email, password string) (*authdomain.User, error) {
	user, err := s.authsvc.SignUp(c.Request.Context(), authdomain.SignUpRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	s.obsMetrics.RecordAuthEvent(c.Request.Context(), "signup", err)
	return user, err
}

// login opens a backend session and sets the session cookie.
func (s *Server) login(c *gin.Context, email, password string) (*authdomain.LoginResult, error) {
	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     strings.TrimSpace(email),
		Password:  password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	s.obsMetrics.RecordAuthEvent(c.Request.Context(), "login", err)
	if err != nil {
		return nil, err
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	return result, nil
}

// logout revokes the backend session and clears the cookie.
func (s *Server) logout(c *gin.Context) error {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		return ErrUnauthorized
	}

	err := s.authsvc.Logout(c.Request.Context(), token)
	s.obsMetrics.RecordAuthEvent(c.Request.Context(), "logout", err)
	if err != nil {
		return err
	}

	s.sessions.Clear(c)
	return nil
}
