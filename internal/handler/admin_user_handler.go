package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
)

type adminUserService interface {
	List(ctx context.Context, actor *models.Actor) ([]models.Profile, error)
	Create(ctx context.Context, actor *models.Actor, req dto.CreateAdminUserRequest) (*models.Profile, error)
	ResetPassword(ctx context.Context, actor *models.Actor, req dto.ResetPasswordRequest) error
	Delete(ctx context.Context, actor *models.Actor, id string) error
}

// AdminUserHandler manages admin accounts. Every route is super admin only.
// The admin console reads these routes without the envelope: a bare profile
// array, {message} on success and {error} on failure.
type AdminUserHandler struct {
	service adminUserService
}

// NewAdminUserHandler constructs an AdminUserHandler.
func NewAdminUserHandler(service adminUserService) *AdminUserHandler {
	return &AdminUserHandler{service: service}
}

// List godoc
// @Summary List admin profiles
// @Description Super admins first
// @Tags Admin Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Profile
// @Failure 403 {object} dto.AdminError
// @Router /admin/users [get]
func (h *AdminUserHandler) List(c *gin.Context) {
	profiles, err := h.service.List(c.Request.Context(), actorFromContext(c))
	if err != nil {
		adminError(c, err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, profiles)
}

// Create godoc
// @Summary Create an admin account
// @Tags Admin Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateAdminUserRequest true "Account"
// @Success 200 {object} dto.AdminMessage
// @Failure 400 {object} dto.AdminError
// @Failure 500 {object} dto.AdminError
// @Router /admin/users [post]
func (h *AdminUserHandler) Create(c *gin.Context) {
	var req dto.CreateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		adminError(c, appErrors.Because(appErrors.ErrValidation, err, "invalid user payload"))
		return
	}
	if _, err := h.service.Create(c.Request.Context(), actorFromContext(c), req); err != nil {
		adminError(c, err)
		return
	}
	adminMessage(c, "User berhasil dibuat")
}

// ResetPassword godoc
// @Summary Reset an admin password
// @Tags Admin Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ResetPasswordRequest true "Target and new password"
// @Success 200 {object} dto.AdminMessage
// @Failure 400 {object} dto.AdminError
// @Failure 404 {object} dto.AdminError
// @Router /admin/users [put]
func (h *AdminUserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		adminError(c, appErrors.Because(appErrors.ErrValidation, err, "invalid password payload"))
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), actorFromContext(c), req); err != nil {
		adminError(c, err)
		return
	}
	adminMessage(c, "Password berhasil diubah")
}

// Delete godoc
// @Summary Delete an admin account
// @Description Super admin accounts cannot be deleted
// @Tags Admin Users
// @Produce json
// @Security BearerAuth
// @Param id query string true "User ID"
// @Success 200 {object} dto.AdminMessage
// @Failure 400 {object} dto.AdminError
// @Failure 403 {object} dto.AdminError
// @Router /admin/users [delete]
func (h *AdminUserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Query("id")); err != nil {
		adminError(c, err)
		return
	}
	adminMessage(c, "User dihapus")
}

func adminMessage(c *gin.Context, message string) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.AdminMessage{Message: message})
}

func adminError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, dto.AdminError{Error: appErr.Message})
}
