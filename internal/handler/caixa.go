package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/middleware"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
	"github.com/Marcos-ViniciusDEV/PDV/internal/service"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir opens a cash session for the operator.
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar closes the session and returns totals plus drawer variance.
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status reports whether the authenticated operator has an open session.
func (h *CaixaHandler) Status(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sess, err := h.svc.CurrentSession(c.Request.Context(), claims.OperatorID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sess == nil {
		c.JSON(http.StatusOK, dto.StatusCaixaResponse{IsOpen: false})
		return
	}
	resp := dto.StatusCaixaResponse{IsOpen: true}
	closed := sessionToResponse(sess)
	resp.Session = &closed
	c.JSON(http.StatusOK, resp)
}

// Sangria records a cash withdrawal from the drawer.
func (h *CaixaHandler) Sangria(c *gin.Context) {
	h.movimento(c, model.MovementBleed)
}

// Reforco records a cash supply into the drawer.
func (h *CaixaHandler) Reforco(c *gin.Context) {
	h.movimento(c, model.MovementSupply)
}

func (h *CaixaHandler) movimento(c *gin.Context, kind string) {
	var req dto.MovimentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimento(c.Request.Context(), kind, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RelatorioX returns the partial reading of one session.
func (h *CaixaHandler) RelatorioX(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sessão inválido"))
		return
	}
	resp, err := h.svc.SessionTotals(c.Request.Context(), uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioZ returns the daily closing report. Accepts ?date=YYYY-MM-DD,
// defaulting to today. Each call is one fiscal reduction.
func (h *CaixaHandler) RelatorioZ(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("data inválida, use YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	resp, err := h.svc.DailyTotals(c.Request.Context(), day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func sessionToResponse(sess *model.CaixaSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:            sess.ID,
		UUID:          sess.UUID.String(),
		OperatorID:    sess.OperatorID,
		OperatorName:  sess.OperatorName,
		OpenedAt:      sess.OpenedAt.Format(time.RFC3339),
		InitialAmount: sess.InitialAmount,
		FinalAmount:   sess.FinalAmount,
		Status:        sess.Status,
	}
	if sess.ClosedAt != nil {
		closed := sess.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}
