// Package handlers contains HTTP request handlers for the auth service.
package handlers

import (
	"errors"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the JSON envelope every endpoint renders.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Details string      `json:"details,omitempty"`
}

// Responder is the single place that maps the error taxonomy to HTTP
// responses. Handlers never pick status codes for errors themselves.
type Responder struct {
	log        *zap.SugaredLogger
	production bool
}

// NewResponder creates a Responder. In production mode error details and
// causes are never rendered to clients.
func NewResponder(log *zap.SugaredLogger, production bool) *Responder {
	return &Responder{log: log, production: production}
}

// Success writes a success envelope.
func (r *Responder) Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Status: "success", Message: message, Data: data})
}

// Pending writes the 202 envelope used when MFA is still outstanding.
func (r *Responder) Pending(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Status: "pending", Message: message})
}

// Error logs the failure with the request method and path, then renders the
// taxonomy mapping. If a response has already been written the error is only
// logged, never double-written.
func (r *Responder) Error(c *gin.Context, err error) {
	appErr := apperrors.From(err)

	logFn := r.log.Warnw
	if appErr.Kind == apperrors.KindServer {
		logFn = r.log.Errorw
	}
	logFn("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", appErr.Status(),
		"error", err,
	)

	if c.Writer.Written() {
		return
	}

	resp := Response{
		Status:  "error",
		Message: appErr.Message,
		Errors:  appErr.Fields,
	}
	if appErr.Kind == apperrors.KindServer && !r.production {
		if cause := errors.Unwrap(appErr); cause != nil {
			resp.Details = cause.Error()
		}
	}
	c.AbortWithStatusJSON(appErr.Status(), resp)
}

// BadRequest renders a request-binding failure as a validation error.
func (r *Responder) BadRequest(c *gin.Context, err error) {
	r.Error(c, apperrors.Validation("Invalid request payload", err.Error()))
}
