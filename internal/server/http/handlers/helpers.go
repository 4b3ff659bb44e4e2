package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/server/http/dto"
	"github.com/frelanci/orderchat/internal/server/http/middleware"
)

// CurrentUserID extracts the authenticated user identifier from context.
func CurrentUserID(c *gin.Context) string {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                order.ID,
		Job:               dto.JobRefResponse{ID: order.JobID, Title: order.JobTitle},
		Client:            dto.UserRefResponse{ID: order.ClientID, Name: order.ClientName},
		Freelancer:        dto.UserRefResponse{ID: order.FreelancerID, Name: order.FreelancerName},
		Price:             order.Price,
		Requirements:      order.Requirements,
		Status:            string(order.Status),
		PaymentApproved:   order.PaymentApproved,
		PaymentApprovedAt: order.PaymentApprovedAt,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
	resp.Messages = make([]dto.MessageResponse, 0, len(order.Messages))
	for _, msg := range order.Messages {
		resp.Messages = append(resp.Messages, toMessageResponse(msg))
	}
	return resp
}

func toMessageResponse(msg model.Message) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:              msg.ID,
		SenderID:        msg.SenderID,
		SenderName:      msg.SenderName,
		Message:         msg.Body,
		IsSystemMessage: msg.IsSystemMessage,
		CreatedAt:       msg.CreatedAt,
	}
	if msg.Media != nil {
		resp.Media = &dto.MediaResponse{URL: msg.Media.URL, Type: string(msg.Media.Type)}
	}
	return resp
}
