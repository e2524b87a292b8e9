package handler

import (
	"errors"
	"net/http"
	"strconv"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	service "github.com/Faraimunashe/negcom/internal/service/postgresql"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NegotiationHandler struct {
	negotiationService *service.NegotiationService
}

func NewNegotiationHandler(negotiationService *service.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{negotiationService: negotiationService}
}

// statusForError maps service sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDiscountRule),
		errors.Is(err, service.ErrInvalidNotificationID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotNegotiationOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNegotiationNotFound),
		errors.Is(err, service.ErrVehicleNotFound),
		errors.Is(err, service.ErrNoOffers):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateActiveNegotiation),
		errors.Is(err, service.ErrNotActive),
		errors.Is(err, service.ErrAlreadyTerminal):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func negotiationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid negotiation id format"})
		return uuid.Nil, false
	}
	return id, true
}

// Open starts a negotiation with the buyer's first offer.
func (h *NegotiationHandler) Open(c *gin.Context) {
	buyerID := c.MustGet("user_id").(uuid.UUID)

	var input entity.OpenNegotiationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	vehicleID, err := uuid.Parse(input.VehicleIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_id format"})
		return
	}

	negotiation, offer, err := h.negotiationService.Open(buyerID, vehicleID, input.Amount, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"negotiation": negotiation, "offer": offer})
}

// SubmitOffer appends a buyer offer to an active negotiation.
func (h *NegotiationHandler) SubmitOffer(c *gin.Context) {
	buyerID := c.MustGet("user_id").(uuid.UUID)

	id, ok := negotiationID(c)
	if !ok {
		return
	}

	var input entity.SubmitOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	offer, err := h.negotiationService.SubmitOffer(id, entity.ActorBuyer, buyerID, input.Amount, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"offer": offer})
}

func (h *NegotiationHandler) Accept(c *gin.Context) {
	buyerID := c.MustGet("user_id").(uuid.UUID)

	id, ok := negotiationID(c)
	if !ok {
		return
	}

	// Empty body means "accept the latest offer".
	var input entity.AcceptNegotiationInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
			return
		}
	}

	negotiation, err := h.negotiationService.Accept(id, entity.ActorBuyer, buyerID, input.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiation": negotiation, "final_price": negotiation.FinalPrice})
}

func (h *NegotiationHandler) Reject(c *gin.Context) {
	buyerID := c.MustGet("user_id").(uuid.UUID)

	id, ok := negotiationID(c)
	if !ok {
		return
	}

	negotiation, err := h.negotiationService.Reject(id, entity.ActorBuyer, buyerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiation": negotiation})
}

func (h *NegotiationHandler) Cancel(c *gin.Context) {
	buyerID := c.MustGet("user_id").(uuid.UUID)

	id, ok := negotiationID(c)
	if !ok {
		return
	}

	negotiation, err := h.negotiationService.Cancel(id, entity.ActorBuyer, buyerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiation": negotiation})
}

// State returns the negotiation with its latest ledger entry.
func (h *NegotiationHandler) State(c *gin.Context) {
	id, ok := negotiationID(c)
	if !ok {
		return
	}

	negotiation, latest, err := h.negotiationService.GetState(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiation": negotiation, "latest_offer": latest})
}

// History returns the full offer ledger in creation order.
func (h *NegotiationHandler) History(c *gin.Context) {
	id, ok := negotiationID(c)
	if !ok {
		return
	}

	offers, err := h.negotiationService.GetHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

// Mine lists the caller's negotiations, most recently updated first.
func (h *NegotiationHandler) Mine(c *gin.Context) {
	buyerID := c.MustGet("user_id").(uuid.UUID)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	negotiations, err := h.negotiationService.ListByBuyer(buyerID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiations": negotiations})
}
