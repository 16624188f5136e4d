package api

import (
	"net/http"

	"voicemarket/internal/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) openSupplier(c *gin.Context) {
	id, snap := h.supplierService.Open(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{
		"id":        id,
		"dashboard": snap,
	})
}

func (h *Handler) getSupplier(c *gin.Context) {
	snap, err := h.supplierService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) closeSupplier(c *gin.Context) {
	if err := h.supplierService.Close(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addStock(c *gin.Context) {
	var form session.StockForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.supplierService.AddStock(c.Request.Context(), c.Param("id"), c.GetHeader("Idempotency-Key"), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) acceptOrder(c *gin.Context) {
	h.decide(c, session.ActionAccept)
}

func (h *Handler) rejectOrder(c *gin.Context) {
	h.decide(c, session.ActionReject)
}

// decide answers 200 with the snapshot even when the order id is unknown
func (h *Handler) decide(c *gin.Context, action string) {
	snap, err := h.supplierService.ActOnOrder(c.Request.Context(), c.Param("id"), c.Param("orderId"), action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) listAlerts(c *gin.Context) {
	alerts, err := h.supplierService.Alerts(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
