package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/archimatch/archimatch/internal/pkg/errcode"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
	"github.com/archimatch/archimatch/internal/pkg/response"
	"github.com/archimatch/archimatch/internal/service"
)

type MatchHandler struct {
	matching *service.MatchingService
	matches  *service.MatchService
}

func NewMatchHandler(matching *service.MatchingService, matches *service.MatchService) *MatchHandler {
	return &MatchHandler{matching: matching, matches: matches}
}

type requestMatchRequest struct {
	ArchitectID string `json:"architect_id"`
}

type respondMatchRequest struct {
	Approve bool `json:"approve"`
}

func (h *MatchHandler) Rank(c *gin.Context) {
	query := c.Query("q")
	clientID := getUserID(c)
	ranked, err := h.matching.RankMatches(c.Request.Context(), clientID, query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": ranked})
}

func (h *MatchHandler) Request(c *gin.Context) {
	var req requestMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	m, err := h.matches.RequestMatch(c.Request.Context(), getUserID(c), req.ArchitectID)
	if err != nil {
		if errors.Is(err, appErr.ErrConflict) {
			response.Error(c, errcode.ErrDuplicateMatch, "match request already exists")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"match_id": m.ID, "status": m.Status})
}

func (h *MatchHandler) Respond(c *gin.Context) {
	var req respondMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	m, err := h.matches.RespondToMatch(c.Request.Context(), c.Param("id"), getUserID(c), req.Approve)
	if err != nil {
		if errors.Is(err, appErr.ErrConflict) {
			response.Error(c, errcode.ErrMatchClosed, "match already resolved")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"match_id": m.ID, "status": m.Status})
}

func (h *MatchHandler) ListPending(c *gin.Context) {
	pending, err := h.matches.ListPending(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": pending})
}

func (h *MatchHandler) ListMine(c *gin.Context) {
	mine, err := h.matches.ListForClient(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": mine})
}
