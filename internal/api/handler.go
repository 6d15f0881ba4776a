package api

import (
	"context"
	"net/http"
	"time"

	"github.com/msrikanth38/90s-jar/internal/service"
	"github.com/msrikanth38/90s-jar/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the business services the handlers delegate to
type Services struct {
	Orders    *service.OrderService
	Catalog   *service.CatalogService
	Customers *service.CustomerService
	Finance   *service.FinanceService
	Reports   *service.ReportService
	Settings  *service.SettingsService
}

// Options carries the process settings the handlers report or serve from
type Options struct {
	StaticDir      string
	Backend        string
	DatabaseURLSet bool
	Checks         map[string]Pinger
}

// Handler contains HTTP handlers
type Handler struct {
	svc    Services
	opts   Options
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(svc Services, opts Options) *Handler {
	return &Handler{
		svc:    svc,
		opts:   opts,
		logger: util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(loggerMiddleware(h.logger))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/inventory", h.listInventory)
		api.POST("/inventory", h.saveInventoryItem)
		api.DELETE("/inventory/:id", h.deleteInventoryItem)
		api.PUT("/inventory/:id/stock", h.adjustStock)

		api.GET("/customers", h.listCustomers)
		api.POST("/customers", h.saveCustomer)
		api.DELETE("/customers/:id", h.deleteCustomer)

		api.GET("/orders", h.listOrders)
		api.POST("/orders", h.placeOrder)
		api.PUT("/orders/:id", h.updateOrder)
		api.PUT("/orders/:id/status", h.updateOrderStatus)
		api.DELETE("/orders/:id", h.deleteOrder)

		api.GET("/history", h.listHistory)
		api.DELETE("/history/:id", h.deleteHistory)

		api.GET("/combos", h.listCombos)
		api.POST("/combos", h.saveCombo)
		api.DELETE("/combos/:id", h.deleteCombo)

		api.GET("/recipes", h.listRecipes)
		api.POST("/recipes", h.saveRecipe)
		api.DELETE("/recipes/:id", h.deleteRecipe)

		api.GET("/transactions", h.listTransactions)
		api.POST("/transactions", h.saveTransaction)
		api.DELETE("/transactions/:id", h.deleteTransaction)

		api.GET("/offers", h.listOffers)
		api.POST("/offers", h.saveOffer)
		api.DELETE("/offers/:id", h.deleteOffer)

		api.GET("/settings", h.getSettings)
		api.PUT("/settings", h.updateSettings)

		api.GET("/stats", h.stats)
		api.GET("/export", h.exportData)
		api.POST("/import", h.importData)
		api.GET("/debug", h.debug)
	}

	router.GET("/", h.index)
	router.NoRoute(h.static)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings the database and, when configured, the cache
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, p := range h.opts.Checks {
		if err := p.Ping(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		h.logger.Warn("Readiness check failed", zap.Any("checks", failed))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"checks": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// debug reports which persistence backend is active
func (h *Handler) debug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"database_url_set":      h.opts.DatabaseURLSet,
		"has_postgres":          true,
		"using_postgres":        h.opts.Backend == "postgres",
		"postgres_import_error": nil,
		"backend":               h.opts.Backend,
	})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg,
		zap.Error(err),
		zap.String("request_id", requestID(c)),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

func created(c *gin.Context, id string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
