package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the structured error envelope used on the auth and infra
// routes. The legacy /apoint routes keep their own bare contract below.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	if v, ok := ctx.Get("request_id"); ok {
		if s, ok := v.(string); ok {
			apiErr.RequestID = s
		}
	}

	if apiErr.RequestID == "" {
		apiErr.RequestID = ctx.GetHeader("X-Request-Id")
	}

	ctx.JSON(status, gin.H{"error": apiErr})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// The /apoint routes predate the structured envelope; their consumers parse
// a bare {error: "..."} body and a plain 500 on any failure.

func RespondLegacyFailure(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
