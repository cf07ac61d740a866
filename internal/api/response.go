package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes shared across the API surface.
const (
	CodeInternal        = "INTERNAL_SERVER_ERROR"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInvalidCreds    = "INVALID_CREDENTIALS"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeTokenInvalid    = "TOKEN_INVALID"
	CodeAlreadyExists   = "RESOURCE_ALREADY_EXISTS"
	CodeConflict        = "RESOURCE_CONFLICT"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeInvalidFileType = "INVALID_FILE_TYPE"
	CodeUploadFailed    = "UPLOAD_FAILED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeMissingField    = "MISSING_REQUIRED_FIELD"
)

// Response is the standard envelope for every JSON endpoint.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorBody carries a machine-readable code and a human-readable message.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Pagination describes the window of a paginated result.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination derives pagination metadata; totalPages is ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// OK writes a 200 envelope with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created writes a 201 envelope with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Message writes a 200 envelope carrying only a message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// Paginated writes a 200 envelope with data and pagination metadata.
func Paginated(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: &p})
}

// Error writes an error envelope with the given status and code.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}

// AbortError writes an error envelope and aborts the handler chain.
func AbortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}
