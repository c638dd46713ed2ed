package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/listing"
	"github.com/stemsi/profile-directory/internal/middleware"
	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/response"
	"github.com/stemsi/profile-directory/internal/service"
	"github.com/stemsi/profile-directory/internal/session"
	"github.com/stemsi/profile-directory/internal/store"
	"github.com/stemsi/profile-directory/internal/validator"
)

// Flash keys carried across a redirect in ?notice=.
var flashNotices = map[string]response.Notice{
	"created":       response.NoticeCreated,
	"updated":       response.NoticeUpdated,
	"deleted":       response.NoticeDeleted,
	"create_failed": response.NoticeCreateFailed,
	"update_failed": response.NoticeUpdateFailed,
	"delete_failed": response.NoticeDeleteFailed,
	"not_found":     response.NoticeProfileNotFound,
	"fetch_failed":  response.NoticeFetchDetailFailed,
	"signed_out":    response.NoticeSignedOut,
}

// pageData is the view model shared by every template.
type pageData struct {
	Title      string
	SignedIn   bool
	Notice     response.Notice
	Path       string
	Query      string
	Items      []model.Profile
	Pagination *listing.Pagination
	Detail     *model.ProfileDetail
	ID         model.ProfileID
	Form       model.ProfileInput
	Email      string
	Error      string
}

// PageHandler renders the HTML directory and admin dashboard.
type PageHandler struct {
	profileService *service.ProfileService
	authService    *service.AuthService
	cookie         middleware.SessionCookie
	log            zerolog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(profileService *service.ProfileService, authService *service.AuthService, cookie middleware.SessionCookie, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		profileService: profileService,
		authService:    authService,
		cookie:         cookie,
		log:            log.With().Str("component", "page_handler").Logger(),
	}
}

func (h *PageHandler) data(c *gin.Context, title string) pageData {
	return pageData{
		Title:    title,
		SignedIn: middleware.GetSession(c).Authenticated(),
		Notice:   flashNotices[c.Query("notice")],
		Path:     c.Request.URL.Path,
		Query:    c.Query("q"),
	}
}

// Profiles godoc
// GET /profiles?q=&page=
func (h *PageHandler) Profiles(c *gin.Context) {
	d := h.data(c, "Profiles")

	res, err := h.profileService.PublicListing(c.Request.Context(), d.Query, pageParam(c))
	if err != nil {
		h.log.Error().Err(err).Msg("Public listing failed")
		d.Notice = response.NoticeFetchProfilesFailed
		c.HTML(http.StatusBadGateway, "profiles.html", d)
		return
	}

	d.Items = res.Items
	d.Pagination = &res.Pagination
	c.HTML(http.StatusOK, "profiles.html", d)
}

// Profile godoc
// GET /profile/:id
func (h *PageHandler) Profile(c *gin.Context) {
	d := h.data(c, "Profile")

	id, ok := profileID(c)
	if !ok {
		d.Notice = response.NoticeProfileNotFound
		c.HTML(http.StatusNotFound, "profile.html", d)
		return
	}

	detail, err := h.profileService.Detail(c.Request.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		d.Notice = response.NoticeFetchDetailFailed
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
			d.Notice = response.NoticeProfileNotFound
		}
		c.HTML(status, "profile.html", d)
		return
	}

	d.Title = detail.Profile.Name
	d.Detail = detail
	c.HTML(http.StatusOK, "profile.html", d)
}

// SignInForm godoc
// GET /admin/signin
func (h *PageHandler) SignInForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signin.html", h.data(c, "Admin sign in"))
}

// SignIn godoc
// POST /admin/signin
func (h *PageHandler) SignIn(c *gin.Context) {
	email := c.PostForm("email")

	token, err := h.authService.SignIn(email, c.PostForm("password"))
	if err != nil {
		d := h.data(c, "Admin sign in")
		d.Email = email
		status := http.StatusInternalServerError
		d.Error = response.GetMessage(response.ErrInternal)
		if errors.Is(err, service.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			d.Error = response.GetMessage(response.ErrInvalidCredentials)
		}
		c.HTML(status, "signin.html", d)
		return
	}

	middleware.GetSession(c).SignIn(token)
	h.cookie.Set(c, token)
	c.Redirect(http.StatusFound, middleware.AdminHomePath)
}

// SignOut godoc
// GET /admin/signout
func (h *PageHandler) SignOut(c *gin.Context) {
	middleware.GetSession(c).SignOut()
	h.cookie.Clear(c)
	c.Redirect(http.StatusFound, middleware.AdminSignInPath+"?notice=signed_out")
}

// Dashboard godoc
// GET /admin?q=&page=
func (h *PageHandler) Dashboard(c *gin.Context) {
	d := h.data(c, "Manage profiles")
	sess := middleware.GetSession(c)

	res, err := h.profileService.AdminListing(c.Request.Context(), sess, d.Query, pageParam(c))
	if err != nil {
		if h.endSession(c, sess, err) {
			return
		}
		h.log.Error().Err(err).Msg("Admin listing failed")
		d.Notice = response.NoticeFetchProfilesFailed
		c.HTML(http.StatusBadGateway, "admin.html", d)
		return
	}

	d.Items = res.Items
	d.Pagination = &res.Pagination
	c.HTML(http.StatusOK, "admin.html", d)
}

// EditForm godoc
// GET /admin/profiles/:id/edit
func (h *PageHandler) EditForm(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		h.back(c, "not_found")
		return
	}

	p, err := h.profileService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.back(c, "not_found")
			return
		}
		h.back(c, "fetch_failed")
		return
	}

	d := h.data(c, "Edit "+p.Name)
	d.ID = p.ID
	d.Form = model.ProfileInputFrom(*p)
	c.HTML(http.StatusOK, "edit.html", d)
}

// CreateProfile godoc
// POST /admin/profiles
func (h *PageHandler) CreateProfile(c *gin.Context) {
	in, ok := h.bindForm(c)
	if !ok {
		h.back(c, "create_failed")
		return
	}

	sess := middleware.GetSession(c)
	if _, err := h.profileService.Create(c.Request.Context(), sess, in); err != nil {
		if !h.endSession(c, sess, err) {
			h.log.Warn().Err(err).Msg("Create failed")
			h.back(c, "create_failed")
		}
		return
	}
	h.back(c, "created")
}

// UpdateProfile godoc
// POST /admin/profiles/:id
func (h *PageHandler) UpdateProfile(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		h.back(c, "not_found")
		return
	}
	in, ok := h.bindForm(c)
	if !ok {
		h.back(c, "update_failed")
		return
	}

	sess := middleware.GetSession(c)
	if _, err := h.profileService.Update(c.Request.Context(), sess, id, in); err != nil {
		if !h.endSession(c, sess, err) {
			h.log.Warn().Err(err).Str("id", string(id)).Msg("Update failed")
			h.back(c, "update_failed")
		}
		return
	}
	h.back(c, "updated")
}

// DeleteProfile godoc
// POST /admin/profiles/:id/delete
func (h *PageHandler) DeleteProfile(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		h.back(c, "not_found")
		return
	}

	sess := middleware.GetSession(c)
	if err := h.profileService.Delete(c.Request.Context(), sess, id); err != nil {
		switch {
		case h.endSession(c, sess, err):
		case errors.Is(err, store.ErrNotFound):
			h.back(c, "not_found")
		default:
			h.log.Warn().Err(err).Str("id", string(id)).Msg("Delete failed")
			h.back(c, "delete_failed")
		}
		return
	}
	h.back(c, "deleted")
}

func (h *PageHandler) bindForm(c *gin.Context) (model.ProfileInput, bool) {
	var in model.ProfileInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.Debug().Interface("fields", validator.TranslateErrors(err)).Msg("Invalid profile form")
		return in, false
	}
	return in, true
}

// endSession redirects to sign-in when the store rejected the token.
func (h *PageHandler) endSession(c *gin.Context, sess *session.Session, err error) bool {
	if !errors.Is(err, store.ErrUnauthorized) {
		return false
	}
	sess.SignOut()
	h.cookie.Clear(c)
	c.Redirect(http.StatusFound, middleware.AdminSignInPath)
	return true
}

// back redirects to the dashboard; the list is re-requested there.
func (h *PageHandler) back(c *gin.Context, notice string) {
	c.Redirect(http.StatusFound, middleware.AdminHomePath+"?"+url.Values{"notice": {notice}}.Encode())
}
