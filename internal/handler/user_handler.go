package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/archimatch/archimatch/internal/pkg/errcode"
	"github.com/archimatch/archimatch/internal/pkg/response"
	"github.com/archimatch/archimatch/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type syncProfileRequest struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func (h *UserHandler) SyncMe(c *gin.Context) {
	var req syncProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	user, err := h.users.SyncProfile(c.Request.Context(), getUserID(c), req.DisplayName, req.Role)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, user)
}
