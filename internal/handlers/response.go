package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"seguimiento/internal/services"
)

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": true, "message": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope with the status matching the error kind.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	errorJSON(c, status, err.Error())
}

// isArrayBody reports whether the JSON body is an array, the marker of a bulk replace.
func isArrayBody(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeBody binds an already read body the way ShouldBindJSON binds a fresh one.
func decodeBody(c *gin.Context, body []byte, dst interface{}) bool {
	if err := binding.JSON.BindBody(body, dst); err != nil {
		errorJSON(c, http.StatusBadRequest, "JSON inválido: "+err.Error())
		return false
	}
	return true
}
