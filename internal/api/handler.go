package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/service"
	"voicemarket/internal/session"
	"voicemarket/internal/store"
	"voicemarket/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActivityLister reads the journal of marketplace events
type ActivityLister interface {
	ListActivity(ctx context.Context, limit int) ([]store.ActivityEntry, error)
}

// ReadinessCheck is one dependency probed by /ready
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	authService     *service.AuthService
	vendorService   *service.VendorService
	supplierService *service.SupplierService
	activity        ActivityLister
	checks          []ReadinessCheck
}

// NewHandler creates a new HTTP handler. activity may be nil when no database is configured.
func NewHandler(
	authService *service.AuthService,
	vendorService *service.VendorService,
	supplierService *service.SupplierService,
	activity ActivityLister,
	checks ...ReadinessCheck,
) *Handler {
	return &Handler{
		authService:     authService,
		vendorService:   vendorService,
		supplierService: supplierService,
		activity:        activity,
		checks:          checks,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth/sessions")
		auth.POST("", h.selectRole)
		auth.GET("/:id", h.getAuth)
		auth.PUT("/:id/role", h.changeRole)
		auth.POST("/:id/login", h.login)
		auth.POST("/:id/signup", h.signup)
		auth.POST("/:id/back", h.backToRoles)
		auth.DELETE("/:id", h.closeAuth)

		v1.GET("/activity", h.listActivity)
	}

	vendor := router.Group(models.VendorDashboardPath)
	{
		vendor.POST("", h.openVendor)
		vendor.GET("/:id", h.getVendor)
		vendor.DELETE("/:id", h.closeVendor)
		vendor.POST("/:id/listening", h.startListening)
		vendor.DELETE("/:id/listening", h.stopListening)
		vendor.POST("/:id/orders", h.confirmOrder)
		vendor.GET("/:id/suppliers", h.listSuppliers)
	}

	supplier := router.Group(models.SupplierDashboardPath)
	{
		supplier.POST("", h.openSupplier)
		supplier.GET("/:id", h.getSupplier)
		supplier.DELETE("/:id", h.closeSupplier)
		supplier.POST("/:id/stock", h.addStock)
		supplier.POST("/:id/orders/:orderId/accept", h.acceptOrder)
		supplier.POST("/:id/orders/:orderId/reject", h.rejectOrder)
		supplier.GET("/:id/alerts", h.listAlerts)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck probes every configured dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			failed[check.Name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listActivity returns the newest journaled marketplace events
func (h *Handler) listActivity(c *gin.Context) {
	if h.activity == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Activity journal not configured",
		})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = n
	}

	entries, err := h.activity.ListActivity(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list activity",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// respondError maps service errors onto status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Session not found",
			"details": err.Error(),
		})
	case errors.Is(err, models.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid role",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}
