package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/service"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

// PurchaseHandler exposes purchase sessions over HTTP. Every endpoint maps
// onto one session operation and answers with the session snapshot.
type PurchaseHandler struct {
	purchases *service.PurchaseService
}

// NewPurchaseHandler constructs a PurchaseHandler.
func NewPurchaseHandler(purchases *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// CreatePurchaseRequest carries an optional deep link.
type CreatePurchaseRequest struct {
	Service  string `json:"service"`
	Provider string `json:"provider"`
}

type serviceRequest struct {
	Service string `json:"service" binding:"required,service"`
}

type providerRequest struct {
	ProviderID string `json:"providerId" binding:"required"`
}

type productRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type denominationRequest struct {
	Value int `json:"value" binding:"required,gt=0"`
}

type amountRequest struct {
	Amount string `json:"amount" binding:"max=32"`
}

type recipientRequest struct {
	Recipient string `json:"recipient" binding:"max=32"`
}

type meterTypeRequest struct {
	MeterType string `json:"meterType" binding:"required,meter_type"`
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required,payment_method"`
}

type secretRequest struct {
	Secret string `json:"secret" binding:"max=128"`
}

// CreatePurchase handles POST /v1/purchases. The deep link may come from the
// body or the service/provider query parameters.
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	req := CreatePurchaseRequest{
		Service:  c.Query("service"),
		Provider: c.Query("provider"),
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.handleError(c, bindingError(err), nil)
			return
		}
	}

	sess := h.purchases.CreateSession(req.Service, req.Provider)
	utils.Success(c, http.StatusCreated, "Purchase session created", toPurchaseView(sess.Snapshot()))
}

// GetPurchase handles GET /v1/purchases/:sessionId.
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	respondOK(c, "Purchase retrieved successfully", toPurchaseView(sess.Snapshot()))
}

// EndPurchase handles DELETE /v1/purchases/:sessionId.
func (h *PurchaseHandler) EndPurchase(c *gin.Context) {
	if err := h.purchases.EndSession(c.Param("sessionId")); err != nil {
		h.handleError(c, err, nil)
		return
	}
	respondOK(c, "Purchase session ended", nil)
}

// SetService handles PUT /v1/purchases/:sessionId/service.
func (h *PurchaseHandler) SetService(c *gin.Context) {
	var req serviceRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		return m.SetService(models.Service(req.Service))
	})
}

// SetProvider handles PUT /v1/purchases/:sessionId/provider.
func (h *PurchaseHandler) SetProvider(c *gin.Context) {
	var req providerRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		return m.SetProvider(req.ProviderID)
	})
}

// SetProduct handles PUT /v1/purchases/:sessionId/product.
func (h *PurchaseHandler) SetProduct(c *gin.Context) {
	var req productRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		return m.SetProduct(req.ProductID)
	})
}

// SelectDenomination handles PUT /v1/purchases/:sessionId/denomination.
func (h *PurchaseHandler) SelectDenomination(c *gin.Context) {
	var req denominationRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		return m.SelectDenomination(req.Value)
	})
}

// SetCustomAmount handles PUT /v1/purchases/:sessionId/custom-amount.
func (h *PurchaseHandler) SetCustomAmount(c *gin.Context) {
	var req amountRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		return m.SetCustomAmount(req.Amount)
	})
}

// SetAmount handles PUT /v1/purchases/:sessionId/amount.
func (h *PurchaseHandler) SetAmount(c *gin.Context) {
	var req amountRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		return m.SetAmount(req.Amount)
	})
}

// SetRecipient handles PUT /v1/purchases/:sessionId/recipient.
func (h *PurchaseHandler) SetRecipient(c *gin.Context) {
	var req recipientRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		m.SetRecipient(req.Recipient)
		return nil
	})
}

// SetMeterType handles PUT /v1/purchases/:sessionId/meter-type.
func (h *PurchaseHandler) SetMeterType(c *gin.Context) {
	var req meterTypeRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		return m.SetMeterType(models.MeterType(req.MeterType))
	})
}

// SetPaymentMethod handles PUT /v1/purchases/:sessionId/payment-method.
func (h *PurchaseHandler) SetPaymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		return m.SetPaymentMethod(models.PaymentMethod(req.PaymentMethod))
	})
}

// SetSecret handles PUT /v1/purchases/:sessionId/secret. An empty secret
// clears it.
func (h *PurchaseHandler) SetSecret(c *gin.Context) {
	var req secretRequest
	h.update(c, &req, func(m *service.SelectionMachine) error {
		if req.Secret == "" {
			m.ClearSecret()
			return nil
		}
		m.SetSecret(req.Secret)
		return nil
	})
}

// Submit handles POST /v1/purchases/:sessionId/submit. With wait=true the
// response is held until processing settles.
func (h *PurchaseHandler) Submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	snap, err := sess.Submit()
	if err != nil {
		h.handleError(c, err, &snap)
		return
	}

	if c.Query("wait") == "true" {
		if err := sess.Wait(c.Request.Context()); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("Stopped waiting for submission")
		}
		snap = sess.Snapshot()
	}

	if snap.Flow.State == service.FlowSubmitting {
		utils.Success(c, http.StatusAccepted, "Purchase is processing", toPurchaseView(snap))
		return
	}
	respondOK(c, "Purchase completed", toPurchaseView(snap))
}

// Acknowledge handles POST /v1/purchases/:sessionId/acknowledge.
func (h *PurchaseHandler) Acknowledge(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := sess.Acknowledge()
	if err != nil {
		h.handleError(c, err, &snap)
		return
	}
	respondOK(c, "Result acknowledged", toPurchaseView(snap))
}

func (h *PurchaseHandler) update(c *gin.Context, req interface{}, apply func(m *service.SelectionMachine) error) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(req); err != nil {
		h.handleError(c, bindingError(err), nil)
		return
	}
	snap, err := sess.Update(apply)
	if err != nil {
		h.handleError(c, err, &snap)
		return
	}
	respondOK(c, "Purchase updated", toPurchaseView(snap))
}

func (h *PurchaseHandler) session(c *gin.Context) (*service.PurchaseSession, bool) {
	sess, err := h.purchases.Get(c.Param("sessionId"))
	if err != nil {
		h.handleError(c, err, nil)
		return nil, false
	}
	return sess, true
}

// handleError maps engine errors onto HTTP responses. Validation reasons
// carry the snapshot so the caller can render the blocked form.
func (h *PurchaseHandler) handleError(c *gin.Context, err error, snap *service.SessionSnapshot) {
	var data interface{}
	if snap != nil {
		data = toPurchaseView(*snap)
	}

	switch {
	case utils.IsValidationReason(err):
		utils.ErrorWithData(c, http.StatusUnprocessableEntity, err.Error(), utils.ReasonMessage(err), data)
	case errors.Is(err, utils.ErrSessionNotFound):
		utils.Error(c, http.StatusNotFound, err.Error(), "Purchase session not found")
	case errors.Is(err, utils.ErrSubmissionInProgress):
		utils.ErrorWithData(c, http.StatusConflict, err.Error(), "A submission is already being processed", data)
	case errors.Is(err, utils.ErrResultNotAcknowledged):
		utils.ErrorWithData(c, http.StatusConflict, err.Error(), "Acknowledge the previous result first", data)
	case errors.Is(err, utils.ErrNothingToAcknowledge):
		utils.ErrorWithData(c, http.StatusConflict, err.Error(), "There is no result to acknowledge", data)
	case errors.Is(err, utils.ErrUnknownService):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Unknown service")
	case errors.Is(err, utils.ErrUnknownProvider):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Provider does not offer this service")
	case errors.Is(err, utils.ErrUnknownProduct):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Product not found for this provider")
	case errors.Is(err, utils.ErrUnknownDenomination):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Amount is not a preset denomination")
	case errors.Is(err, utils.ErrOperationNotSupported):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Operation not supported for this service")
	case errors.Is(err, utils.ErrAmountReadOnly):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Amount is computed for this service")
	case errors.Is(err, utils.ErrInvalidMeterType):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Meter type must be prepaid or postpaid")
	case errors.Is(err, utils.ErrInvalidPaymentMethod):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Payment method must be WALLET, CARD or BANK")
	case errors.Is(err, utils.ErrInvalidRequest):
		utils.Error(c, http.StatusBadRequest, err.Error(), "Invalid request body")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled purchase error")
		utils.Error(c, http.StatusInternalServerError, utils.ErrInternal.Error(), "Internal server error")
	}
}

func respondOK(c *gin.Context, message string, data interface{}) {
	utils.Success(c, http.StatusOK, message, data)
}
