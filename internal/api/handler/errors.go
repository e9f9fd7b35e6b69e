package handler

import (
	"log"
	"net/http"

	"civicreport/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// statusOf maps a domain error onto an HTTP status.
func statusOf(err error) int {
	e, ok := apperr.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		if e.Code == apperr.CodeNotAssigned || e.Code == apperr.CodeForbidden {
			return http.StatusForbidden
		}
		return http.StatusConflict
	case apperr.KindPrecondition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Internal errors are logged and not echoed.
func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: [%s] %s %s: %v", c.GetString(requestIDKey), c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}

	e, _ := apperr.As(err)
	body := gin.H{"error": e.Message, "kind": e.Kind.String()}
	if e.Field != "" {
		body["field"] = e.Field
	}
	if e.Code != "" {
		body["code"] = e.Code
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apperr.KindValidation.String()})
}
