package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/adforge-backend/internal/http/response"
	"github.com/yungbote/adforge-backend/internal/platform/apierr"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/repos"
)

type HistoryHandler struct {
	log  *logger.Logger
	runs repos.RewriteRunRepo
}

func NewHistoryHandler(baseLog *logger.Logger, runs repos.RewriteRunRepo) *HistoryHandler {
	return &HistoryHandler{
		log:  baseLog.With("handler", "HistoryHandler"),
		runs: runs,
	}
}

func (h *HistoryHandler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	runs, err := h.runs.ListRecent(c.Request.Context(), nil, limit)
	if err != nil {
		response.RespondFromError(c, apierr.New(http.StatusInternalServerError, "LIST_FAILED", err))
		return
	}
	response.RespondOK(c, gin.H{"runs": runs})
}

func (h *HistoryHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondFromError(c, apierr.New(http.StatusBadRequest, "INVALID_ID", err))
		return
	}
	run, err := h.runs.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		response.RespondFromError(c, apierr.New(http.StatusInternalServerError, "GET_FAILED", err))
		return
	}
	if run == nil {
		response.RespondFromError(c, apierr.New(http.StatusNotFound, "NOT_FOUND", errors.New("rewrite run not found")))
		return
	}
	response.RespondOK(c, run)
}
