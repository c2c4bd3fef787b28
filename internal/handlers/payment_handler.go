package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/middleware"
	ucPayment "github.com/medibook/clinic-scheduler/internal/usecase/payment"
)

type PaymentHandler struct {
	initiate *ucPayment.Initiate
	verify   *ucPayment.Verify
	cash     *ucPayment.MarkCashComplete
}

func NewPaymentHandler(
	initiate *ucPayment.Initiate,
	verify *ucPayment.Verify,
	cash *ucPayment.MarkCashComplete,
) *PaymentHandler {
	return &PaymentHandler{
		initiate: initiate,
		verify:   verify,
		cash:     cash,
	}
}

// --------- Requests ---------

type InitiatePaymentRequest struct {
	AppointmentID uint     `json:"appointment_id" binding:"required"`
	Amount        *float64 `json:"amount" binding:"required"`
	Method        string   `json:"method" binding:"required"`
}

type CashCompleteRequest struct {
	AppointmentID uint `json:"appointment_id" binding:"required"`
}

// --------- Handlers ---------

func (h *PaymentHandler) Initiate(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Appointment, amount and method are required.")
		return
	}
	if *req.Amount <= 0 {
		httperr.BadRequest(c, "invalid_amount", "Amount must be positive.")
		return
	}

	res, err := h.initiate.Execute(c.Request.Context(), ucPayment.InitiateInput{
		PatientID:     patientID,
		AppointmentID: req.AppointmentID,
		Amount:        *req.Amount,
		Method:        req.Method,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Verify is called when the wallet redirects the patient back with a pidx.
func (h *PaymentHandler) Verify(c *gin.Context) {
	pidx := c.Query("pidx")
	if pidx == "" {
		httperr.BadRequest(c, "missing_pidx", "pidx query parameter is required.")
		return
	}

	res, err := h.verify.Execute(c.Request.Context(), pidx)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) CashComplete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	var req CashCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Appointment id is required.")
		return
	}

	p, err := h.cash.Execute(c.Request.Context(), role, userID, req.AppointmentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
