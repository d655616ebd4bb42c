package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/marki-secure/internal/product/app"
	"github.com/dwikikusuma/marki-secure/internal/product/domain"
	"github.com/dwikikusuma/marki-secure/pkg/identity"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Purchase(c *gin.Context) {
	id, err := productID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.svc.Purchase(c.Request.Context(), id, identity.FromRequest(c.Request))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": p.State, "tokenId": p.TokenID})
}

func (h *Handler) ListMine(c *gin.Context) {
	ps, err := h.svc.ListMine(c.Request.Context(), identity.FromRequest(c.Request))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": ps})
}

func (h *Handler) Verify(c *gin.Context) {
	id, err := productID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	v, err := h.svc.Verify(c.Request.Context(), id, identity.FromRequest(c.Request))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	ps, err := h.svc.Register(c.Request.Context(), identity.FromRequest(c.Request), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeCreated(c, ps)
}

// writeCreated answers with the product itself for a single edition and with
// a bare array otherwise.
func writeCreated(c *gin.Context, ps []domain.Product) {
	if len(ps) == 1 {
		c.JSON(http.StatusCreated, ps[0])
		return
	}
	c.JSON(http.StatusCreated, ps)
}

func productID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}
