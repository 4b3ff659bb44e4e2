package dto

import "time"

// JobRefResponse is the denormalized job snapshot embedded in an order.
type JobRefResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UserRefResponse is the denormalized participant snapshot embedded in an order.
type UserRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MediaResponse is the single attachment of a message.
type MediaResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// MessageResponse is one conversation entry.
type MessageResponse struct {
	ID              string         `json:"id"`
	SenderID        string         `json:"senderId"`
	SenderName      string         `json:"senderName"`
	Message         string         `json:"message"`
	Media           *MediaResponse `json:"media,omitempty"`
	IsSystemMessage bool           `json:"isSystemMessage"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// OrderResponse is the full order record including the conversation thread.
type OrderResponse struct {
	ID                string            `json:"id"`
	Job               JobRefResponse    `json:"jobId"`
	Client            UserRefResponse   `json:"clientId"`
	Freelancer        UserRefResponse   `json:"freelancerId"`
	Price             float64           `json:"price"`
	Requirements      string            `json:"requirements,omitempty"`
	Status            string            `json:"status"`
	PaymentApproved   bool              `json:"paymentApproved"`
	PaymentApprovedAt *time.Time        `json:"paymentApprovedAt,omitempty"`
	Messages          []MessageResponse `json:"messages"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// CreateOrderRequest places an order against a job listing.
type CreateOrderRequest struct {
	JobID        string  `json:"jobId"`
	JobTitle     string  `json:"jobTitle"`
	FreelancerID string  `json:"freelancerId"`
	Price        float64 `json:"price"`
	Requirements string  `json:"requirements"`
}

// SendMessageRequest appends a message to the conversation.
type SendMessageRequest struct {
	Message   string `json:"message"`
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"`
}

// UpdateStatusRequest requests a workflow transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
