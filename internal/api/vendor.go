package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) openVendor(c *gin.Context) {
	id, snap := h.vendorService.Open(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{
		"id":        id,
		"dashboard": snap,
	})
}

func (h *Handler) getVendor(c *gin.Context) {
	snap, err := h.vendorService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) closeVendor(c *gin.Context) {
	if err := h.vendorService.Close(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) startListening(c *gin.Context) {
	_, snap, err := h.vendorService.StartListening(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, snap)
}

func (h *Handler) stopListening(c *gin.Context) {
	snap, err := h.vendorService.StopListening(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// confirmOrder answers 204 when there is no parsed order to confirm
func (h *Handler) confirmOrder(c *gin.Context) {
	order, ok, err := h.vendorService.ConfirmOrder(c.Request.Context(), c.Param("id"), c.GetHeader("Idempotency-Key"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *Handler) listSuppliers(c *gin.Context) {
	suppliers, err := h.vendorService.Suppliers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}
