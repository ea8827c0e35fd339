package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login authenticates by operator id or email against the local user
// table.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Operadores lists the operators available on the login screen.
func (h *AuthHandler) Operadores(c *gin.Context) {
	resp, err := h.svc.Operadores(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
