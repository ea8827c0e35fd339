package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/service"
)

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler { return &VendasHandler{svc: svc} }

// Registrar completes a sale: fiscal numbering, atomic persistence and
// cash settlement.
func (h *VendasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancelar records an aborted sale for the fiscal trail.
func (h *VendasHandler) Cancelar(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Suspender parks the current cart.
func (h *VendasHandler) Suspender(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Suspender(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Suspensas lists all parked carts.
func (h *VendasHandler) Suspensas(c *gin.Context) {
	resp, err := h.svc.Suspensas(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recuperar pulls the items of a suspended sale back into the cart and
// removes the suspended record.
func (h *VendasHandler) Recuperar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("UUID inválido"))
		return
	}
	resp, err := h.svc.Recuperar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExcluirSuspensa discards a parked cart.
func (h *VendasHandler) ExcluirSuspensa(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("UUID inválido"))
		return
	}
	if err := h.svc.ExcluirSuspensa(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Recentes lists the most recent sales, ?limit defaults to 20.
func (h *VendasHandler) Recentes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.Recentes(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pendentes lists sales not yet pushed to the central server.
func (h *VendasHandler) Pendentes(c *gin.Context) {
	resp, err := h.svc.Pendentes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
