package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/marki-secure/internal/product/domain"
	"github.com/dwikikusuma/marki-secure/pkg/identity"
)

type createManufacturerRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateManufacturer(c *gin.Context) {
	var req createManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	m, err := h.svc.CreateManufacturer(c.Request.Context(), identity.FromRequest(c.Request), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListManufacturers(c *gin.Context) {
	ms, err := h.svc.ListManufacturers(c.Request.Context(), identity.FromRequest(c.Request))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manufacturers": ms})
}

func (h *Handler) GetManufacturer(c *gin.Context) {
	m, err := h.svc.GetManufacturer(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) VerifyManufacturer(c *gin.Context) {
	m, err := h.svc.VerifyManufacturer(c.Request.Context(), c.Param("slug"), identity.FromRequest(c.Request))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// CreateCompanyProduct registers products under the caller's first brand.
func (h *Handler) CreateCompanyProduct(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	ps, err := h.svc.CreateForCompany(c.Request.Context(), identity.FromRequest(c.Request), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeCreated(c, ps)
}

func (h *Handler) Me(c *gin.Context) {
	p, err := h.svc.Me(c.Request.Context(), identity.FromRequest(c.Request))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
