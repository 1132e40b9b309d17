package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jatinbhagat/decipherworld-backend/internal/dto"
	"github.com/jatinbhagat/decipherworld-backend/internal/repository"
	"github.com/jatinbhagat/decipherworld-backend/internal/service"
)

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrPlayerNotFound),
		errors.Is(err, repository.ErrResponseNotFound),
		errors.Is(err, repository.ErrChallengeNotFound),
		errors.Is(err, repository.ErrMissionNotFound),
		errors.Is(err, repository.ErrLevelNotFound),
		errors.Is(err, repository.ErrArticleNotFound),
		errors.Is(err, repository.ErrCommentNotFound),
		errors.Is(err, repository.ErrNotificationNotFound),
		errors.Is(err, service.ErrNotFound):
		dto.JsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		dto.JsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotJoinable),
		errors.Is(err, service.ErrInvalidTransition):
		dto.JsonError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		dto.JsonError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrRateLimited):
		dto.JsonError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		dto.JsonError(c, http.StatusUnauthorized, err.Error())
	default:
		dto.JsonError(c, http.StatusInternalServerError, err.Error())
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = intQuery(c, "limit", 20)
	offset = intQuery(c, "offset", 0)
	return limit, offset
}

func intQuery(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}
