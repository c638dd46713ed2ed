package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/profile-directory/internal/middleware"
	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/response"
	"github.com/stemsi/profile-directory/internal/service"
	"github.com/stemsi/profile-directory/internal/validator"
)

// AdminHandler serves the admin profile API. Every route runs behind
// middleware.RequireAdminToken.
type AdminHandler struct {
	profileService *service.ProfileService
	cookie         middleware.SessionCookie
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(profileService *service.ProfileService, cookie middleware.SessionCookie) *AdminHandler {
	return &AdminHandler{profileService: profileService, cookie: cookie}
}

// ListProfiles godoc
// GET /api/admin/profiles?q=&page=
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	sess := middleware.GetSession(c)

	res, err := h.profileService.AdminListing(c.Request.Context(), sess, c.Query("q"), pageParam(c))
	if err != nil {
		failStore(c, &h.cookie, sess, err, response.NoticeFetchProfilesFailed)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, res.Items, toPagination(res.Pagination))
}

// GetProfile godoc
// GET /api/admin/profiles/:id
func (h *AdminHandler) GetProfile(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	p, err := h.profileService.Get(c.Request.Context(), id)
	if err != nil {
		failStore(c, &h.cookie, middleware.GetSession(c), err, response.NoticeFetchDetailFailed)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// CreateProfile godoc
// POST /api/admin/profiles
// On success the caller must re-request the list (metadata.refetch).
func (h *AdminHandler) CreateProfile(c *gin.Context) {
	var in model.ProfileInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields, response.WithNotice(response.NoticeCreateFailed))
		return
	}

	sess := middleware.GetSession(c)
	p, err := h.profileService.Create(c.Request.Context(), sess, in)
	if err != nil {
		failStore(c, &h.cookie, sess, err, response.NoticeCreateFailed)
		return
	}

	response.Success(c, http.StatusCreated, p, response.WithNotice(response.NoticeCreated), response.WithRefetch())
}

// UpdateProfile godoc
// PUT /api/admin/profiles/:id
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var in model.ProfileInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields, response.WithNotice(response.NoticeUpdateFailed))
		return
	}

	sess := middleware.GetSession(c)
	p, err := h.profileService.Update(c.Request.Context(), sess, id, in)
	if err != nil {
		failStore(c, &h.cookie, sess, err, response.NoticeUpdateFailed)
		return
	}

	response.Success(c, http.StatusOK, p, response.WithNotice(response.NoticeUpdated), response.WithRefetch())
}

// DeleteProfile godoc
// DELETE /api/admin/profiles/:id
func (h *AdminHandler) DeleteProfile(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sess := middleware.GetSession(c)
	if err := h.profileService.Delete(c.Request.Context(), sess, id); err != nil {
		failStore(c, &h.cookie, sess, err, response.NoticeDeleteFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id}, response.WithNotice(response.NoticeDeleted), response.WithRefetch())
}
