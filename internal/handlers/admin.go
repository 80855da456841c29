package handlers

import (
	"net/http"
	"strconv"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/middleware"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/repository"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles user administration HTTP requests.
type AdminHandler struct {
	adminService service.AdminService
	responder    *Responder
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(adminService service.AdminService, responder *Responder) *AdminHandler {
	return &AdminHandler{adminService: adminService, responder: responder}
}

// ChangeRoleRequest represents the role change payload.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN CUSTOMER"`
}

// ListUsers godoc
// @Summary List users
// @Description List users with optional role, active-flag and search filters
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param role query string false "Filter by role" Enums(ADMIN, CUSTOMER)
// @Param isActive query bool false "Filter by active flag"
// @Param search query string false "Substring match on email and names"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter repository.UserFilter
	if roleParam := c.Query("role"); roleParam != "" {
		role := models.Role(roleParam)
		filter.Role = &role
	}
	if activeParam := c.Query("isActive"); activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			h.responder.BadRequest(c, err)
			return
		}
		filter.IsActive = &active
	}
	filter.Search = c.Query("search")

	users, err := h.adminService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "", users)
}

// GetUser godoc
// @Summary Fetch one user
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/admin/users/{userId} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.adminService.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "", user)
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param request body ChangeRoleRequest true "New role"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/admin/users/{userId}/change-role [put]
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	err := h.adminService.ChangeRole(c.Request.Context(), c.Param("userId"),
		models.Role(req.Role), middleware.CurrentUserID(c))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "User role updated successfully.", nil)
}

// DeactivateUser godoc
// @Summary Deactivate a user
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/admin/users/{userId}/deactivate [put]
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	err := h.adminService.DeactivateUser(c.Request.Context(), c.Param("userId"), middleware.CurrentUserID(c))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "User deactivated successfully.", nil)
}

// ReactivateUser godoc
// @Summary Reactivate a user
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/admin/users/{userId}/reactivate [put]
func (h *AdminHandler) ReactivateUser(c *gin.Context) {
	err := h.adminService.ReactivateUser(c.Request.Context(), c.Param("userId"), middleware.CurrentUserID(c))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "User reactivated successfully.", nil)
}

// GetUserActivity godoc
// @Summary Fetch a user's audit trail
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/admin/users/{userId}/activity [get]
func (h *AdminHandler) GetUserActivity(c *gin.Context) {
	activities, err := h.adminService.GetUserActivity(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "", activities)
}
