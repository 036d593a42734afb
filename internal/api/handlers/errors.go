package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/service"
)

// importDetails locates the cell that aborted an import.
type importDetails struct {
	File   string `json:"file,omitempty"`
	Row    int    `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
}

// statusFor maps service errors onto HTTP statuses and response details.
func statusFor(err error) (int, interface{}) {
	var (
		ie    *domain.ImportError
		verrs domain.ValidationErrors
		verr  domain.ValidationError
		syn   *json.SyntaxError
		typ   *json.UnmarshalTypeError
		mbe   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ie):
		return http.StatusBadRequest, importDetails{File: ie.File, Row: ie.Row, Column: ie.Column}
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, verrs
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, domain.ValidationErrors{verr}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, nil
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, nil
	case errors.Is(err, domain.ErrNotCustomProduct):
		return http.StatusConflict, nil
	case errors.Is(err, domain.ErrUnsupportedVersion), errors.As(err, &syn), errors.As(err, &typ):
		return http.StatusBadRequest, nil
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge, nil
	case errors.Is(err, service.ErrDriveDisabled):
		return http.StatusNotImplemented, nil
	}
	return http.StatusInternalServerError, nil
}

func errorResponse(c *gin.Context, err error) {
	status, details := statusFor(err)

	body := gin.H{"error": err.Error()}
	if details != nil {
		body["details"] = details
	}
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		body["error"] = "internal server error"
	} else {
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("request rejected")
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
