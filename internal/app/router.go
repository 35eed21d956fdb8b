package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sweetshop/internal/config"
	"sweetshop/internal/handlers"
	"sweetshop/internal/logger"
)

// maxUploadMemory caps the in-memory part of multipart product forms.
const maxUploadMemory = 8 << 20

// NewRouter registers every route on a fresh engine.
func NewRouter(cfg *config.Config, logg *logger.Logger, h *handlers.Handler, renderer render.HTMLRender, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID(logg))
	r.Use(handlers.RequestLogger(logg))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	r.MaxMultipartMemory = maxUploadMemory

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.HTMLRender = renderer

	r.Static("/static", cfg.App.StaticDir)
	r.Static("/media", cfg.Data.UploadDir)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	site := r.Group("/")
	site.Use(h.SessionMiddleware())
	{
		site.GET("/", h.HomePage)
		site.GET("/products", h.ProductsPage)
		site.GET("/product/:id", h.ProductPage)
		site.GET("/about", h.AboutPage)
		site.GET("/contact", h.ContactPage)
		site.POST("/contact", h.SubmitContact)

		site.POST("/add-full-carton/:categoryId", h.AddFullCarton)
		site.GET("/cart", h.CartPage)
		site.POST("/cart/inc/:key", h.CartIncrement)
		site.POST("/cart/dec/:key", h.CartDecrement)
		site.POST("/cart/remove/:key", h.CartRemove)
		site.POST("/cart/clear", h.CartClear)
		site.POST("/place-order", h.PlaceOrder)

		site.GET("/admin", h.AdminLoginPage)
		site.POST("/admin", h.AdminLogin)
		site.POST("/admin/login", h.AdminLogin)
		site.GET("/admin/logout", h.AdminLogout)
	}

	admin := site.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.GET("/dashboard", h.AdminDashboard)

		admin.GET("/products/new", h.NewProductPage)
		admin.POST("/products/new", h.CreateProduct)
		admin.GET("/products/:id/edit", h.EditProductPage)
		admin.POST("/products/:id/edit", h.UpdateProduct)
		admin.POST("/products/:id/delete", h.DeleteProduct)

		admin.GET("/categories/new", h.NewCategoryPage)
		admin.POST("/categories/new", h.CreateCategory)
		admin.GET("/categories/:id/edit", h.EditCategoryPage)
		admin.POST("/categories/:id/edit", h.UpdateCategory)
		admin.POST("/categories/:id/delete", h.DeleteCategory)
		admin.POST("/categories/reorder", h.ReorderCategories)

		admin.GET("/orders", h.AdminOrders)
		admin.GET("/orders/:id/bill", h.OrderBill)
		admin.GET("/orders/:id/bill/pdf", h.OrderBillPDF)

		admin.GET("/reports", h.ReportsPage)
		admin.GET("/reports/export-csv", h.ExportCSV)
		admin.GET("/reports/export-xlsx", h.ExportXLSX)

		admin.GET("/messages", h.AdminMessages)
	}

	return r
}
