package handler

import "github.com/hadesigndz/Ha-Design/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// PriceData is the delivery fee of one wilaya
// @Description Delivery fee lookup result
type PriceData struct {
	Code  string `json:"code" example:"16"`
	Name  string `json:"name" example:"Alger"`
	Price int64  `json:"price" example:"350"`
	Known bool   `json:"known" example:"true"`
}
