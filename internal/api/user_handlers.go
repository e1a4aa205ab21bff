package api

import (
	"errors"
	"net/http"

	"shopfront/internal/models"
	"shopfront/internal/service"
	"shopfront/internal/session"
	"shopfront/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) userList(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_list.html", gin.H{"Users": users})
}

func (h *Handler) userDetail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user, customer, err := h.accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_detail.html", gin.H{
		"User":     user,
		"Customer": customer,
	})
}

// userRequest is the typed user-management create/update form, combining
// identity and customer profile fields.
type userRequest struct {
	Username   string `form:"username" binding:"required"`
	Email      string `form:"email"`
	FirstName  string `form:"first_name"`
	LastName   string `form:"last_name"`
	Password   string `form:"password"`
	Phone      string `form:"phone"`
	Address    string `form:"address"`
	City       string `form:"city"`
	State      string `form:"state"`
	PostalCode string `form:"postal_code"`
	Country    string `form:"country"`
}

func (h *Handler) renderUserForm(c *gin.Context, user *models.User, customer *models.Customer, formError string) {
	title := "Create User"
	if user != nil && user.ID != 0 {
		title = "Update User"
	}
	status := http.StatusOK
	if formError != "" {
		status = http.StatusBadRequest
	}
	h.render(c, status, "user_form.html", gin.H{
		"Title":     title,
		"User":      user,
		"Customer":  customer,
		"FormError": formError,
	})
}

func (h *Handler) userForm(c *gin.Context) {
	var (
		user     *models.User
		customer *models.Customer
	)
	if c.Param("id") != "" {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		loadedUser, loadedCustomer, err := h.accounts.GetUser(c.Request.Context(), id)
		if err != nil {
			h.notFoundOr500(c, err)
			return
		}
		user, customer = loadedUser, loadedCustomer
	}
	h.renderUserForm(c, user, customer, "")
}

func (h *Handler) userSave(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderUserForm(c, nil, nil, "Username is required.")
		return
	}

	input := service.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}
	profile := store.ProfileUpdate{
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	var (
		user *models.User
		err  error
	)
	if c.Param("id") != "" {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		user, err = h.accounts.UpdateUser(c.Request.Context(), id, input, profile)
	} else {
		user, err = h.accounts.CreateUser(c.Request.Context(), input, profile)
	}
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.renderUserForm(c, nil, nil, vErr.Message)
		case errors.Is(err, store.ErrConflict):
			h.renderUserForm(c, nil, nil, "Username already exists!")
		default:
			h.notFoundOr500(c, err)
		}
		return
	}

	currentSession(c).AddFlash(session.FlashSuccess, "User saved successfully!")
	c.Redirect(http.StatusSeeOther, "/user/"+formatID(user.ID)+"/")
}

func (h *Handler) userConfirmDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user, _, err := h.accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_confirm_delete.html", gin.H{"User": user})
}

func (h *Handler) userDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.accounts.DeleteUser(c.Request.Context(), id); err != nil {
		h.notFoundOr500(c, err)
		return
	}
	currentSession(c).AddFlash(session.FlashSuccess, "User deleted successfully!")
	c.Redirect(http.StatusSeeOther, "/users/")
}
