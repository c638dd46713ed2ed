package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/profile-directory/internal/listing"
	"github.com/stemsi/profile-directory/internal/middleware"
	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/response"
	"github.com/stemsi/profile-directory/internal/session"
	"github.com/stemsi/profile-directory/internal/store"
)

// failStore answers a failed store call. When the store rejected the
// session's token the session is already Anonymous; its cookie is discarded
// and the client is sent to sign-in.
func failStore(c *gin.Context, cookie *middleware.SessionCookie, sess *session.Session, err error, notice response.Notice) {
	_ = c.Error(err)
	withNotice := response.WithNotice(notice)

	var verr *store.ValidationError
	var serr *store.StatusError
	switch {
	case errors.Is(err, store.ErrUnauthorized):
		if cookie != nil && sess != nil && !sess.Authenticated() {
			cookie.Clear(c)
		}
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired, withNotice, response.WithRedirect(middleware.AdminSignInPath))
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound, response.WithNotice(response.NoticeProfileNotFound))
	case errors.As(err, &verr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, verr.Fields, withNotice)
	case errors.Is(err, store.ErrValidation):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrStoreRejected, withNotice)
	case errors.Is(err, store.ErrNetwork):
		response.Fail(c, http.StatusBadGateway, response.ErrStoreUnavailable, withNotice)
	case errors.As(err, &serr):
		response.Fail(c, http.StatusBadGateway, response.ErrStoreRejected, withNotice)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, withNotice)
	}
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

// profileID reads the :id path parameter.
func profileID(c *gin.Context) (model.ProfileID, bool) {
	id := strings.TrimSpace(c.Param("id"))
	return model.ProfileID(id), id != ""
}

func toPagination(p listing.Pagination) *response.Pagination {
	return &response.Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}
