package api

import (
	"errors"
	"net/http"

	"shopfront/internal/service"
	"shopfront/internal/session"
	"shopfront/internal/store"

	"github.com/gin-gonic/gin"
)

// registerRequest is the typed self-service registration form.
type registerRequest struct {
	Username        string `form:"username" binding:"required"`
	Email           string `form:"email"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

func (h *Handler) registerForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", nil)
}

func (h *Handler) registerSubmit(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"FormError": "All fields are required.",
			"Username":  req.Username,
			"Email":     req.Email,
		})
		return
	}

	_, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		var vErr *service.ValidationError
		message := ""
		switch {
		case errors.As(err, &vErr):
			message = vErr.Message
		case errors.Is(err, store.ErrConflict):
			message = "Username already exists!"
		default:
			h.notFoundOr500(c, err)
			return
		}
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"FormError": message,
			"Username":  req.Username,
			"Email":     req.Email,
		})
		return
	}

	currentSession(c).AddFlash(session.FlashSuccess, "Account created successfully! Please login.")
	c.Redirect(http.StatusSeeOther, "/login/")
}

// loginRequest is the typed login form.
type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", nil)
}

func (h *Handler) loginSubmit(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"FormError": "Username and password are required.",
		})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render(c, http.StatusUnauthorized, "login.html", gin.H{
				"FormError": "Invalid username or password!",
				"Username":  req.Username,
			})
			return
		}
		h.notFoundOr500(c, err)
		return
	}

	// Rotate the session on privilege change; the cart carries over.
	sess := currentSession(c)
	oldID := sess.ID
	sess.Login(user.ID)
	if err := h.sessions.Delete(c.Request.Context(), oldID); err != nil {
		h.logger.Error("Failed to delete pre-login session")
	}
	h.setSessionCookie(c, sess.ID)

	sess.AddFlash(session.FlashSuccess, "Welcome back, "+user.Username+"!")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) logout(c *gin.Context) {
	sess := currentSession(c)
	oldID := sess.ID
	sess.Reset()
	if err := h.sessions.Delete(c.Request.Context(), oldID); err != nil {
		h.logger.Error("Failed to delete session on logout")
	}
	h.setSessionCookie(c, sess.ID)

	sess.AddFlash(session.FlashSuccess, "Logged out successfully!")
	c.Redirect(http.StatusSeeOther, "/")
}
