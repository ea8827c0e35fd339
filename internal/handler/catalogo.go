package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marcos-ViniciusDEV/PDV/internal/service"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// Produtos lists the locally synced catalog.
func (h *CatalogoHandler) Produtos(c *gin.Context) {
	resp, err := h.svc.Produtos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorBarcode resolves a scanned barcode.
func (h *CatalogoHandler) PorBarcode(c *gin.Context) {
	resp, err := h.svc.ProdutoPorBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorCodigo resolves an internal product code.
func (h *CatalogoHandler) PorCodigo(c *gin.Context) {
	resp, err := h.svc.ProdutoPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recarregar pulls a fresh catalog from the central server.
func (h *CatalogoHandler) Recarregar(c *gin.Context) {
	if err := h.svc.Load(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
