package api

import (
	"errors"
	"net/http"
	"strconv"

	"shopfront/internal/models"
	"shopfront/internal/service"
	"shopfront/internal/session"
	"shopfront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// pathID parses the :id route parameter. A malformed id renders a 404 and
// reports false.
func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		h.renderError(c, http.StatusNotFound, "Page not found")
		return 0, false
	}
	return id, true
}

// home renders the storefront landing page, optionally filtered by
// ?category=.
func (h *Handler) home(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			categoryID = &id
		}
	}

	products, categories, err := h.catalog.Home(c.Request.Context(), categoryID)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}

	var selected int64
	if categoryID != nil {
		selected = *categoryID
	}
	h.render(c, http.StatusOK, "home.html", gin.H{
		"Products":   products,
		"Categories": categories,
		"CategoryID": selected,
	})
}

func (h *Handler) productDetail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "product_detail.html", gin.H{"Product": product})
}

func (h *Handler) categoryView(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	category, products, err := h.catalog.CategoryProducts(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "category.html", gin.H{
		"Category": category,
		"Products": products,
	})
}

func (h *Handler) productList(c *gin.Context) {
	search := c.Query("search")
	products, err := h.catalog.ListProducts(c.Request.Context(), search)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "product_list.html", gin.H{
		"Products":    products,
		"SearchQuery": search,
	})
}

// productRequest is the typed product create/update form.
type productRequest struct {
	Name        string `form:"name" binding:"required"`
	Price       string `form:"price" binding:"required"`
	Description string `form:"description"`
	Stock       int    `form:"stock"`
	CategoryID  int64  `form:"category_id"`
}

func (h *Handler) renderProductForm(c *gin.Context, product *models.Product, formError string) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	title := "Create Product"
	if product != nil && product.ID != 0 {
		title = "Update Product"
	}
	var selected int64
	if product != nil && product.CategoryID != nil {
		selected = *product.CategoryID
	}
	status := http.StatusOK
	if formError != "" {
		status = http.StatusBadRequest
	}
	h.render(c, status, "product_form.html", gin.H{
		"Title":            title,
		"Product":          product,
		"Categories":       categories,
		"SelectedCategory": selected,
		"FormError":        formError,
	})
}

func (h *Handler) productForm(c *gin.Context) {
	var product *models.Product
	if c.Param("id") != "" {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		loaded, err := h.catalog.GetProduct(c.Request.Context(), id)
		if err != nil {
			h.notFoundOr500(c, err)
			return
		}
		product = loaded
	}
	h.renderProductForm(c, product, "")
}

func (h *Handler) productSave(c *gin.Context) {
	product := &models.Product{}
	if c.Param("id") != "" {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		product.ID = id
	}

	var req productRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderProductForm(c, product, "All required fields must be filled in.")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.renderProductForm(c, product, "Price must be a decimal number.")
		return
	}

	product.Name = req.Name
	product.Price = price
	product.Description = req.Description
	product.Stock = req.Stock
	if req.CategoryID != 0 {
		product.CategoryID = &req.CategoryID
	}

	if err := h.catalog.SaveProduct(c.Request.Context(), product); err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.renderProductForm(c, product, vErr.Message)
		case errors.Is(err, store.ErrConflict):
			h.renderProductForm(c, product, "A product with that name already exists.")
		default:
			h.notFoundOr500(c, err)
		}
		return
	}

	sess := currentSession(c)
	if product.ID != 0 && c.Param("id") != "" {
		sess.AddFlash(session.FlashSuccess, "Product updated successfully!")
	} else {
		sess.AddFlash(session.FlashSuccess, "Product created successfully!")
	}
	c.Redirect(http.StatusSeeOther, "/products/")
}

func (h *Handler) productConfirmDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "product_confirm_delete.html", gin.H{"Product": product})
}

func (h *Handler) productDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.notFoundOr500(c, err)
		return
	}
	currentSession(c).AddFlash(session.FlashSuccess, "Product deleted successfully!")
	c.Redirect(http.StatusSeeOther, "/products/")
}

// ---- Categories ----

func (h *Handler) categoryList(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "category_list.html", gin.H{"Categories": categories})
}

// categoryRequest is the typed category create/update form.
type categoryRequest struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
}

func (h *Handler) renderCategoryForm(c *gin.Context, category *models.Category, formError string) {
	title := "Create Category"
	if category != nil && category.ID != 0 {
		title = "Update Category"
	}
	status := http.StatusOK
	if formError != "" {
		status = http.StatusBadRequest
	}
	h.render(c, status, "category_form.html", gin.H{
		"Title":     title,
		"Category":  category,
		"FormError": formError,
	})
}

func (h *Handler) categoryForm(c *gin.Context) {
	var category *models.Category
	if c.Param("id") != "" {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		loaded, err := h.catalog.GetCategory(c.Request.Context(), id)
		if err != nil {
			h.notFoundOr500(c, err)
			return
		}
		category = loaded
	}
	h.renderCategoryForm(c, category, "")
}

func (h *Handler) categorySave(c *gin.Context) {
	category := &models.Category{}
	if c.Param("id") != "" {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		category.ID = id
	}

	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderCategoryForm(c, category, "Name is required.")
		return
	}
	category.Name = req.Name
	category.Description = req.Description

	if err := h.catalog.SaveCategory(c.Request.Context(), category); err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.renderCategoryForm(c, category, vErr.Message)
		case errors.Is(err, store.ErrConflict):
			h.renderCategoryForm(c, category, "A category with that name already exists.")
		default:
			h.notFoundOr500(c, err)
		}
		return
	}

	currentSession(c).AddFlash(session.FlashSuccess, "Category saved successfully!")
	c.Redirect(http.StatusSeeOther, "/categories/")
}

func (h *Handler) categoryConfirmDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	category, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "category_confirm_delete.html", gin.H{"Category": category})
}

func (h *Handler) categoryDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		h.notFoundOr500(c, err)
		return
	}
	currentSession(c).AddFlash(session.FlashSuccess, "Category deleted successfully!")
	c.Redirect(http.StatusSeeOther, "/categories/")
}
