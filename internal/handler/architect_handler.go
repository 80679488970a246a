package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/pkg/errcode"
	"github.com/archimatch/archimatch/internal/pkg/response"
	"github.com/archimatch/archimatch/internal/service"
)

// Credential documents arrive as extracted text or markdown; cap the body
// well above any realistic portfolio description.
const maxCredentialBytes = 1 << 20

type ArchitectHandler struct {
	profiles *service.ProfileService
}

func NewArchitectHandler(profiles *service.ProfileService) *ArchitectHandler {
	return &ArchitectHandler{profiles: profiles}
}

type ratingRequest struct {
	Rating float64 `json:"rating"`
}

type registerRequest struct {
	DisplayName    string `json:"display_name"`
	Style          string `json:"style"`
	Specialization string `json:"specialization"`
	Location       string `json:"location"`
	BudgetRange    string `json:"budget_range"`
	Bio            string `json:"bio"`
	Pro            bool   `json:"pro"`
}

func (h *ArchitectHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	profile := &model.ArchitectProfile{
		ID:             getUserID(c),
		DisplayName:    req.DisplayName,
		Style:          req.Style,
		Specialization: req.Specialization,
		Location:       req.Location,
		BudgetRange:    req.BudgetRange,
		Bio:            req.Bio,
		Pro:            req.Pro,
	}
	if err := h.profiles.Register(c.Request.Context(), profile); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *ArchitectHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *ArchitectHandler) UpdateMe(c *gin.Context) {
	var req service.ProfileUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	profile, err := h.profiles.UpdateProfile(c.Request.Context(), getUserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *ArchitectHandler) UploadCredential(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCredentialBytes))
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	profile, err := h.profiles.IngestCredential(c.Request.Context(), getUserID(c), body)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *ArchitectHandler) UpdateRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.profiles.UpdateRating(c.Request.Context(), c.Param("id"), req.Rating); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}
