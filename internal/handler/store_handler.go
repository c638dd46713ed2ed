package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/repository"
	"github.com/stemsi/profile-directory/internal/validator"
)

// ProfileRepository is the persistence the reference store needs.
type ProfileRepository interface {
	List(ctx context.Context) ([]model.Profile, error)
	Get(ctx context.Context, id model.ProfileID) (*model.Profile, error)
	Create(ctx context.Context, in model.ProfileInput) (*model.Profile, error)
	Update(ctx context.Context, id model.ProfileID, in model.ProfileInput) (*model.Profile, error)
	Delete(ctx context.Context, id model.ProfileID) error
}

var _ ProfileRepository = (*repository.ProfileRepository)(nil)

// StoreHandler serves the /profileDetails resource the directory consumes.
// Bodies are bare JSON values, not the directory's envelope.
type StoreHandler struct {
	repo ProfileRepository
	log  zerolog.Logger
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(repo ProfileRepository, log zerolog.Logger) *StoreHandler {
	return &StoreHandler{
		repo: repo,
		log:  log.With().Str("component", "store_handler").Logger(),
	}
}

// List godoc
// GET /profileDetails
func (h *StoreHandler) List(c *gin.Context) {
	profiles, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// Get godoc
// GET /profileDetails/:id
func (h *StoreHandler) Get(c *gin.Context) {
	id, _ := profileID(c)
	p, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create godoc
// POST /profileDetails
func (h *StoreHandler) Create(c *gin.Context) {
	in, ok := bindStoreInput(c)
	if !ok {
		return
	}
	p, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		h.internal(c, err)
		return
	}
	h.log.Info().Str("id", string(p.ID)).Msg("Profile created")
	c.JSON(http.StatusCreated, p)
}

// Update godoc
// PUT /profileDetails/:id
func (h *StoreHandler) Update(c *gin.Context) {
	id, _ := profileID(c)
	in, ok := bindStoreInput(c)
	if !ok {
		return
	}
	p, err := h.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info().Str("id", string(id)).Msg("Profile updated")
	c.JSON(http.StatusOK, p)
}

// Delete godoc
// DELETE /profileDetails/:id
func (h *StoreHandler) Delete(c *gin.Context) {
	id, _ := profileID(c)
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info().Str("id", string(id)).Msg("Profile deleted")
	c.Status(http.StatusNoContent)
}

func bindStoreInput(c *gin.Context) (model.ProfileInput, bool) {
	var in model.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": validator.TranslateErrors(err)})
		return in, false
	}
	in.Normalize()
	if fields := validator.Validate(&in); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
		return in, false
	}
	return in, true
}

func (h *StoreHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, errorMessage{Error: "profile not found"})
		return
	}
	h.internal(c, err)
}

func (h *StoreHandler) internal(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.Error().Err(err).Msg("Repository failure")
	c.JSON(http.StatusInternalServerError, errorMessage{Error: "internal error"})
}
