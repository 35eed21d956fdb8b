package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sweetshop/internal/models"
	"sweetshop/internal/services"
)

// AddFullCarton adds one carton of a random product of the category and
// answers with the new badge count.
func (h *Handler) AddFullCarton(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category"})
		return
	}

	sess := currentSession(c)
	count, err := h.cart.AddRandomFromCategory(c.Request.Context(), sess.Cart, categoryID)
	if errors.Is(err, services.ErrCategoryHasNoProducts) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No products in this category", "cartCount": count})
		return
	}
	if err != nil {
		h.logg.Error(c.Request.Context(), "add full carton", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not add to cart"})
		return
	}

	h.saveSession(c, sess)
	c.JSON(http.StatusOK, gin.H{"success": true, "cartCount": count})
}

func (h *Handler) CartPage(c *gin.Context) {
	sess := currentSession(c)
	view := sess.Cart.LineItems()
	errorMsg := sess.TakeFlash()
	h.saveSession(c, sess)

	noCache(c)
	h.render(c, http.StatusOK, "cart.html", gin.H{
		"title":    "Cart",
		"items":    view.Lines,
		"subtotal": view.Subtotal,
		"total":    view.Total,
		"errorMsg": errorMsg,
	})
}

// cartMutation wraps the inc/dec handlers: apply, persist, back to the cart.
func (h *Handler) cartMutation(apply func(c *gin.Context, cart *models.Cart, key string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if err := apply(c, sess.Cart, c.Param("key")); err != nil {
			if !errors.Is(err, services.ErrInvalidCartKey) {
				h.serverError(c, "update cart", err)
				return
			}
			sess.Flash = "That cart item no longer exists."
		}
		h.saveSession(c, sess)
		c.Redirect(http.StatusSeeOther, "/cart")
	}
}

func (h *Handler) CartIncrement(c *gin.Context) {
	h.cartMutation(func(c *gin.Context, cart *models.Cart, key string) error {
		return h.cart.Increment(c.Request.Context(), cart, key)
	})(c)
}

func (h *Handler) CartDecrement(c *gin.Context) {
	h.cartMutation(func(c *gin.Context, cart *models.Cart, key string) error {
		return h.cart.Decrement(c.Request.Context(), cart, key)
	})(c)
}

func (h *Handler) CartRemove(c *gin.Context) {
	h.cartMutation(func(_ *gin.Context, cart *models.Cart, key string) error {
		h.cart.Remove(cart, key)
		return nil
	})(c)
}

func (h *Handler) CartClear(c *gin.Context) {
	sess := currentSession(c)
	h.cart.Clear(sess.Cart)
	h.saveSession(c, sess)
	c.Redirect(http.StatusSeeOther, "/cart")
}

// PlaceOrder turns the cart into an order. Failures go back to the cart page
// as a one-shot message.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var details models.CustomerDetails
	_ = c.ShouldBind(&details)

	sess := currentSession(c)
	order, err := h.orders.PlaceOrder(c.Request.Context(), sess.Cart, details)
	if err != nil {
		sess.Flash = services.CheckoutMessage(err)
		h.saveSession(c, sess)
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}

	h.saveSession(c, sess)
	h.render(c, http.StatusOK, "order_confirm.html", gin.H{
		"title":     "Order placed",
		"order":     order,
		"cartCount": 0,
	})
}
