package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sweetshop/internal/catalog"
	"sweetshop/internal/models"
	"sweetshop/internal/services"
)

const topSellingCount = 4

func (h *Handler) HomePage(c *gin.Context) {
	doc, err := h.db.Read()
	if err != nil {
		h.serverError(c, "read document", err)
		return
	}

	topSelling := doc.Products
	if len(topSelling) > topSellingCount {
		topSelling = topSelling[:topSellingCount]
	}

	h.render(c, http.StatusOK, "home.html", gin.H{
		"title":        "Home",
		"categories":   catalog.SortedCategories(doc),
		"bestProducts": catalog.FirstProductPerCategory(doc),
		"topSelling":   topSelling,
		"banners":      doc.Banners,
	})
}

// ProductsPage lists products, optionally narrowed by ?category=<id>.
func (h *Handler) ProductsPage(c *gin.Context) {
	doc, err := h.db.Read()
	if err != nil {
		h.serverError(c, "read document", err)
		return
	}

	products := doc.Products
	selected := 0
	if raw := c.Query("category"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			selected = id
			products = catalog.ProductsByCategory(doc, id)
		}
	}

	h.render(c, http.StatusOK, "products.html", gin.H{
		"title":            "Products",
		"products":         products,
		"categories":       catalog.SortedCategories(doc),
		"selectedCategory": selected,
	})
}

func (h *Handler) ProductPage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Product not found")
		return
	}
	doc, err := h.db.Read()
	if err != nil {
		h.serverError(c, "read document", err)
		return
	}
	p, ok := catalog.ProductByID(doc, id)
	if !ok {
		c.String(http.StatusNotFound, "Product not found")
		return
	}

	category := catalog.CategoryName(doc, p.Category)
	if category == "" {
		category = catalog.UnknownCategory
	}
	h.render(c, http.StatusOK, "product.html", gin.H{
		"title":        p.Name,
		"product":      p,
		"categoryName": category,
	})
}

func (h *Handler) AboutPage(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", gin.H{"title": "About"})
}

func (h *Handler) ContactPage(c *gin.Context) {
	h.render(c, http.StatusOK, "contact.html", gin.H{"title": "Contact"})
}

// SubmitContact stores a contact message. Spam gets the same success page.
func (h *Handler) SubmitContact(c *gin.Context) {
	var form models.MessageForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "contact.html", gin.H{
			"title": "Contact",
			"error": "Please fill in your name, a valid email and a message.",
			"form":  form,
		})
		return
	}

	_, err := h.messages.Submit(c.Request.Context(), form, c.ClientIP())
	if errors.Is(err, services.ErrInvalidInput) {
		h.render(c, http.StatusBadRequest, "contact.html", gin.H{
			"title": "Contact",
			"error": "Please fill in your name, a valid email and a message.",
			"form":  form,
		})
		return
	}
	if err != nil {
		h.serverError(c, "store contact message", err)
		return
	}

	h.render(c, http.StatusOK, "contact.html", gin.H{"title": "Contact", "success": true})
}
