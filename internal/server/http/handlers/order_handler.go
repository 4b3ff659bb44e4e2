package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/server/http/dto"
	"github.com/frelanci/orderchat/internal/usecase"
)

// OrderHandler manages order and conversation endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentUserID(c), usecase.PlaceOrderInput{
		JobID:        req.JobID,
		JobTitle:     req.JobTitle,
		FreelancerID: req.FreelancerID,
		Price:        req.Price,
		Requirements: req.Requirements,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidOrder):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domainErrors.ErrNotFound):
			respondError(c, http.StatusNotFound, "freelancer not found")
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders/my.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// SendMessage handles POST /api/orders/:id/message.
func (h *OrderHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	msg, err := h.facade.SendMessage(c.Request.Context(), c.Param("id"), CurrentUserID(c), req.Message, req.MediaURL, req.MediaType)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEmptyMessage), errors.Is(err, domainErrors.ErrInvalidMedia):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			h.respondOrderError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(*msg))
}

// ApprovePayment handles POST /api/orders/:id/approve-payment.
func (h *OrderHandler) ApprovePayment(c *gin.Context) {
	err := h.facade.ApprovePayment(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrPaymentAlreadyApproved):
			respondError(c, http.StatusConflict, err.Error())
		case errors.Is(err, domainErrors.ErrNotOrderFreelancer):
			respondError(c, http.StatusForbidden, err.Error())
		default:
			h.respondOrderError(c, err)
		}
		return
	}
	c.Status(http.StatusOK)
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	err := h.facade.UpdateStatus(c.Request.Context(), c.Param("id"), CurrentUserID(c), model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidStatus):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			h.respondOrderError(c, err)
		}
		return
	}
	c.Status(http.StatusOK)
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteOrder(c.Request.Context(), c.Param("id"), CurrentUserID(c)); err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "order not found")
	case errors.Is(err, domainErrors.ErrNotParticipant):
		respondError(c, http.StatusForbidden, err.Error())
	default:
		c.Status(http.StatusInternalServerError)
	}
}
