package handler

import (
	"net/http"

	"github.com/cooperative-society-ledger/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Success       bool        `json:"success"`
	Data          any `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo represents pagination metadata in a response
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// NewResponse creates a successful response with data
func NewResponse(data any) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates a failed response
func NewErrorResponse(code, message string) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewPaginatedResponse creates a successful response with pagination metadata
func NewPaginatedResponse(data any, page, perPage, totalItems int) *Response {
	totalPages := 0
	if perPage > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}

	response := NewResponse(data)
	response.Meta = &MetaInfo{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
	return response
}

// write stamps the request's correlation ID on r and sends it
func write(c *gin.Context, statusCode int, r *Response) {
	r.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, r)
}

func RespondWithData(c *gin.Context, statusCode int, data any) {
	write(c, statusCode, NewResponse(data))
}

func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	write(c, statusCode, NewErrorResponse(code, message))
}

func RespondWithPaginatedData(c *gin.Context, statusCode int, data any, page, perPage, totalItems int) {
	write(c, statusCode, NewPaginatedResponse(data, page, perPage, totalItems))
}

func RespondOK(c *gin.Context, data any) {
	RespondWithData(c, http.StatusOK, data)
}

func RespondCreated(c *gin.Context, data any) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondNoContent sends a 204 No Content response
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, "CONFLICT", message)
}

// RespondInternalError hides the cause; handlers log it before calling this
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}
