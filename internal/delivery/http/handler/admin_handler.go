package handler

import (
	"net/http"
	"strconv"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	service "github.com/Faraimunashe/negcom/internal/service/postgresql"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService       *service.AdminService
	negotiationService *service.NegotiationService
}

func NewAdminHandler(adminService *service.AdminService, negotiationService *service.NegotiationService) *AdminHandler {
	return &AdminHandler{adminService: adminService, negotiationService: negotiationService}
}

// ListNegotiations lists negotiations with an optional status filter.
func (h *AdminHandler) ListNegotiations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	status := entity.NegotiationStatus(c.Query("status"))

	negotiations, err := h.adminService.ListNegotiations(status, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiations": negotiations})
}

func (h *AdminHandler) NegotiationDetail(c *gin.Context) {
	id, ok := negotiationID(c)
	if !ok {
		return
	}

	negotiation, offers, err := h.adminService.NegotiationDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiation": negotiation, "offers": offers})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Respond triggers the pricing engine on the negotiation's latest
// offer and applies the resulting transition.
func (h *AdminHandler) Respond(c *gin.Context) {
	id, ok := negotiationID(c)
	if !ok {
		return
	}

	outcome, counter, err := h.negotiationService.RequestAutomatedResponse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"decision": outcome, "counter_offer": counter})
}

// Counter records a human admin counter offer.
func (h *AdminHandler) Counter(c *gin.Context) {
	adminID := c.MustGet("user_id").(uuid.UUID)

	id, ok := negotiationID(c)
	if !ok {
		return
	}

	var input entity.SubmitOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	offer, err := h.negotiationService.SubmitOffer(id, entity.ActorAdmin, adminID, input.Amount, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"offer": offer})
}

// Accept closes a negotiation from the seller side.
func (h *AdminHandler) Accept(c *gin.Context) {
	adminID := c.MustGet("user_id").(uuid.UUID)

	id, ok := negotiationID(c)
	if !ok {
		return
	}

	var input entity.AcceptNegotiationInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
			return
		}
	}

	negotiation, err := h.negotiationService.Accept(id, entity.ActorAdmin, adminID, input.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiation": negotiation, "final_price": negotiation.FinalPrice})
}

func (h *AdminHandler) Reject(c *gin.Context) {
	adminID := c.MustGet("user_id").(uuid.UUID)

	id, ok := negotiationID(c)
	if !ok {
		return
	}

	negotiation, err := h.negotiationService.Reject(id, entity.ActorAdmin, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiation": negotiation})
}

func (h *AdminHandler) Expire(c *gin.Context) {
	id, ok := negotiationID(c)
	if !ok {
		return
	}

	negotiation, err := h.negotiationService.Expire(id, entity.ActorAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"negotiation": negotiation})
}

func (h *AdminHandler) SetDiscountRule(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id format"})
		return
	}

	var input entity.SetDiscountRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	rule, err := h.adminService.SetDiscountRule(vehicleID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

func (h *AdminHandler) GetDiscountRule(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id format"})
		return
	}

	rule, err := h.adminService.GetDiscountRule(vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}
