// HTTP handlers for the story backend API
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iwannatoa/ooc-app-sub000/pkg/service"
)

// statusForError maps the service error taxonomy to HTTP status codes:
// validation and precondition failures are 400, missing resources 404,
// upstream provider failures 502, everything else 500.
func statusForError(err error) int {
	var perr *service.ProviderError
	if errors.As(err, &perr) {
		return http.StatusBadGateway
	}

	switch {
	case errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrProgressNotFound),
		errors.Is(err, service.ErrSummaryNotFound),
		errors.Is(err, service.ErrCharacterNotFound),
		errors.Is(err, service.ErrNoMessages):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrEmptyFeedback),
		errors.Is(err, service.ErrProviderRequired),
		errors.Is(err, service.ErrUnsupportedProvider),
		errors.Is(err, service.ErrOutlineRequired),
		errors.Is(err, service.ErrOutlineNotConfirmed),
		errors.Is(err, service.ErrGenerationInProgress),
		errors.Is(err, service.ErrNoContentToRewrite):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}

func fail(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
}

func ok(c *gin.Context, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["success"] = true
	c.JSON(http.StatusOK, data)
}
