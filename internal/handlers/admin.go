package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"sweetshop/internal/models"
	"sweetshop/internal/services"
)

func (h *Handler) AdminLoginPage(c *gin.Context) {
	if currentSession(c).Admin {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	h.render(c, http.StatusOK, "admin_login.html", gin.H{"title": "Admin login"})
}

func (h *Handler) AdminLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if !h.auth.Check(username, password) {
		h.security.LogSecurityEvent(c.Request.Context(), "admin_login_failed", "username="+username, c.ClientIP())
		h.render(c, http.StatusUnauthorized, "admin_login.html", gin.H{
			"title": "Admin login",
			"error": "Invalid credentials",
		})
		return
	}

	// Privilege change gets a fresh session id.
	old := currentSession(c)
	sess := old.Renew()
	sess.Admin = true
	if err := h.sessions.Delete(c.Request.Context(), old.ID); err != nil {
		h.logg.Error(c.Request.Context(), "session delete failed", err)
	}
	c.Set(sessionContextKey, sess)
	h.saveSession(c, sess)
	h.logg.Info(c.Request.Context(), "admin.login")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// AdminLogout destroys the whole session, cart included.
func (h *Handler) AdminLogout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		h.logg.Error(c.Request.Context(), "session delete failed", err)
	}
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	dash, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		h.serverError(c, "load dashboard", err)
		return
	}
	h.render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"title":              "Dashboard",
		"productsByCategory": dash.Groups,
		"products":           dash.Products,
		"categories":         dash.Categories,
		"orders":             dash.Orders,
		"lowStock":           dash.LowStock,
	})
}

// --- Products ---

func (h *Handler) NewProductPage(c *gin.Context) {
	cats, err := h.admin.Categories(c.Request.Context())
	if err != nil {
		h.serverError(c, "load categories", err)
		return
	}
	h.render(c, http.StatusOK, "admin_product_form.html", gin.H{
		"title":      "New product",
		"categories": cats,
		"action":     "/admin/products/new",
	})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	in, ok := h.bindProduct(c, nil, "/admin/products/new")
	if !ok {
		return
	}
	image, err := h.saveUpload(c, "image")
	if err != nil {
		h.productFormError(c, nil, "/admin/products/new", err.Error())
		return
	}
	if _, err := h.admin.CreateProduct(c.Request.Context(), in, image); err != nil {
		h.discardUpload(c, image)
		if errors.Is(err, services.ErrInvalidInput) {
			h.productFormError(c, nil, "/admin/products/new", "Please choose an existing category.")
			return
		}
		h.serverError(c, "create product", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h *Handler) EditProductPage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Product not found")
		return
	}
	p, cats, err := h.admin.Product(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, "Product not found", err)
		return
	}
	h.render(c, http.StatusOK, "admin_product_form.html", gin.H{
		"title":      "Edit product",
		"product":    p,
		"categories": cats,
		"action":     "/admin/products/" + strconv.Itoa(id) + "/edit",
	})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Product not found")
		return
	}
	ctx := c.Request.Context()
	current, _, err := h.admin.Product(ctx, id)
	if err != nil {
		h.notFoundOr500(c, "Product not found", err)
		return
	}
	action := "/admin/products/" + strconv.Itoa(id) + "/edit"

	in, ok := h.bindProduct(c, &current, action)
	if !ok {
		return
	}
	image, err := h.saveUpload(c, "image")
	if err != nil {
		h.productFormError(c, &current, action, err.Error())
		return
	}
	if _, err := h.admin.UpdateProduct(ctx, id, in, image); err != nil {
		h.discardUpload(c, image)
		if errors.Is(err, services.ErrInvalidInput) {
			h.productFormError(c, &current, action, "Please choose an existing category.")
			return
		}
		h.notFoundOr500(c, "Product not found", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Product not found")
		return
	}
	if err := h.admin.DeleteProduct(c.Request.Context(), id); err != nil && !errors.Is(err, services.ErrNotFound) {
		h.serverError(c, "delete product", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h *Handler) bindProduct(c *gin.Context, current *models.Product, action string) (services.ProductInput, bool) {
	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.productFormError(c, current, action, "Name and category are required.")
		return services.ProductInput{}, false
	}
	in, err := services.ParseProductForm(form)
	if err != nil {
		h.productFormError(c, current, action, "Please check the price, carton size and stock values.")
		return services.ProductInput{}, false
	}
	return in, true
}

func (h *Handler) productFormError(c *gin.Context, current *models.Product, action, msg string) {
	cats, _ := h.admin.Categories(c.Request.Context())
	data := gin.H{
		"title":      "Product",
		"categories": cats,
		"action":     action,
		"error":      msg,
	}
	if current != nil {
		data["product"] = *current
	}
	h.render(c, http.StatusBadRequest, "admin_product_form.html", data)
}

// --- Categories ---

func (h *Handler) NewCategoryPage(c *gin.Context) {
	h.render(c, http.StatusOK, "admin_category_form.html", gin.H{
		"title":  "New category",
		"action": "/admin/categories/new",
	})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var form models.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		h.categoryFormError(c, nil, "/admin/categories/new")
		return
	}
	if _, err := h.admin.CreateCategory(c.Request.Context(), form); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.categoryFormError(c, nil, "/admin/categories/new")
			return
		}
		h.serverError(c, "create category", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h *Handler) EditCategoryPage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Category not found")
		return
	}
	cat, err := h.admin.Category(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, "Category not found", err)
		return
	}
	h.render(c, http.StatusOK, "admin_category_form.html", gin.H{
		"title":    "Edit category",
		"category": cat,
		"action":   "/admin/categories/" + strconv.Itoa(id) + "/edit",
	})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Category not found")
		return
	}
	action := "/admin/categories/" + strconv.Itoa(id) + "/edit"

	var form models.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		h.categoryFormError(c, &models.Category{ID: id}, action)
		return
	}
	if err := h.admin.UpdateCategory(c.Request.Context(), id, form); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.categoryFormError(c, &models.Category{ID: id}, action)
			return
		}
		h.notFoundOr500(c, "Category not found", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// DeleteCategory removes the category and every product in it.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Category not found")
		return
	}
	if _, err := h.admin.DeleteCategory(c.Request.Context(), id); err != nil && !errors.Is(err, services.ErrNotFound) {
		h.serverError(c, "delete category", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// ReorderCategories accepts a JSON array of {id, sort_order}.
func (h *Handler) ReorderCategories(c *gin.Context) {
	var order []models.CategoryOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "expected a list of {id, sort_order}"})
		return
	}
	if err := h.admin.ReorderCategories(c.Request.Context(), order); err != nil {
		h.logg.Error(c.Request.Context(), "reorder categories", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) categoryFormError(c *gin.Context, current *models.Category, action string) {
	data := gin.H{
		"title":  "Category",
		"action": action,
		"error":  "Category name is required.",
	}
	if current != nil {
		data["category"] = *current
	}
	h.render(c, http.StatusBadRequest, "admin_category_form.html", data)
}

// --- Orders ---

func (h *Handler) AdminOrders(c *gin.Context) {
	orders, filter, err := h.admin.ListOrders(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.serverError(c, "list orders", err)
		return
	}
	h.render(c, http.StatusOK, "admin_orders.html", gin.H{
		"title":        "Orders",
		"orders":       orders,
		"selectedDate": filter,
		"showAll":      filter == services.OrderFilterAll,
		"totalCount":   len(orders),
	})
}

func (h *Handler) OrderBill(c *gin.Context) {
	order, err := h.admin.OrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOr500(c, "Order not found", err)
		return
	}
	h.render(c, http.StatusOK, "admin_bill.html", gin.H{
		"title":    "Bill " + order.ID,
		"order":    order,
		"shopName": services.ShopName,
	})
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// OrderBillPDF downloads the bill as <filename>.pdf (default "invoice").
func (h *Handler) OrderBillPDF(c *gin.Context) {
	order, err := h.admin.OrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOr500(c, "Order not found", err)
		return
	}

	filename := unsafeFilename.ReplaceAllString(c.DefaultQuery("filename", "invoice"), "_")
	if filename == "" || filename == "_" {
		filename = "invoice"
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename="+filename+".pdf")
	if err := services.WriteBillPDF(c.Writer, order); err != nil {
		h.logg.Error(c.Request.Context(), "render bill pdf", err)
		_ = c.Error(err)
	}
}

// --- Reports ---

func (h *Handler) ReportsPage(c *gin.Context) {
	report, err := h.reports.Build(c.Request.Context())
	if err != nil {
		h.serverError(c, "build report", err)
		return
	}
	h.render(c, http.StatusOK, "reports.html", gin.H{
		"title":  "Reports",
		"report": report,
	})
}

func (h *Handler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=report.csv")
	if err := h.reports.ExportOrdersCSV(c.Request.Context(), c.Writer); err != nil {
		h.logg.Error(c.Request.Context(), "export csv", err)
		_ = c.Error(err)
	}
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	name := services.ExportFilename("products", "xlsx", h.now())
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+name)
	if err := h.reports.ExportProductsXLSX(c.Request.Context(), c.Writer); err != nil {
		h.logg.Error(c.Request.Context(), "export xlsx", err)
		_ = c.Error(err)
	}
}

func (h *Handler) AdminMessages(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list messages", err)
		return
	}
	h.render(c, http.StatusOK, "admin_messages.html", gin.H{
		"title":    "Messages",
		"messages": messages,
	})
}
