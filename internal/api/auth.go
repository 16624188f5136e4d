package api

import (
	"net/http"

	"voicemarket/internal/session"

	"github.com/gin-gonic/gin"
)

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) selectRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, snap, err := h.authService.SelectRole(c.Request.Context(), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"session": snap,
	})
}

func (h *Handler) getAuth(c *gin.Context) {
	snap, err := h.authService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) changeRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.authService.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// login and signup only require the form fields to be present; nothing is verified
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	form := session.AuthForm{Email: req.Email, Password: req.Password}
	h.submit(c, form, true)
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	form := session.AuthForm{Name: req.Name, Email: req.Email, Phone: req.Phone, Password: req.Password}
	h.submit(c, form, false)
}

func (h *Handler) submit(c *gin.Context, form session.AuthForm, isLogin bool) {
	snap, err := h.authService.Submit(c.Request.Context(), c.Param("id"), form, isLogin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, snap)
}

func (h *Handler) backToRoles(c *gin.Context) {
	snap, err := h.authService.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) closeAuth(c *gin.Context) {
	if err := h.authService.Close(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
