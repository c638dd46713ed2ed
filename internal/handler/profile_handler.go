package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/profile-directory/internal/response"
	"github.com/stemsi/profile-directory/internal/service"
)

// ProfileHandler serves the public directory.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ListProfiles godoc
// GET /api/profiles?q=&page=
// Returns one page of the profiles matching q.
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	res, err := h.profileService.PublicListing(c.Request.Context(), c.Query("q"), pageParam(c))
	if err != nil {
		failStore(c, nil, nil, err, response.NoticeFetchProfilesFailed)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, res.Items, toPagination(res.Pagination))
}

// GetProfile godoc
// GET /api/profiles/:id
// Returns a profile with the map view of its location.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	detail, err := h.profileService.Detail(c.Request.Context(), id)
	if err != nil {
		failStore(c, nil, nil, err, response.NoticeFetchDetailFailed)
		return
	}

	response.Success(c, http.StatusOK, detail)
}
