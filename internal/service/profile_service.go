package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/geocode"
	"github.com/stemsi/profile-directory/internal/listing"
	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/notify"
	"github.com/stemsi/profile-directory/internal/session"
	"github.com/stemsi/profile-directory/internal/store"
)

// Listing is one page of a filtered profile list.
type Listing struct {
	Query      string
	Items      []model.Profile
	Pagination listing.Pagination
}

// ProfileOptions configures the listing behaviour of ProfileService.
type ProfileOptions struct {
	PublicFields listing.FieldSet
	AdminFields  listing.FieldSet
	PageSize     int
}

// ProfileService composes the store client, the listing engine, the geocoder
// and the change feed.
type ProfileService struct {
	store     store.Client
	geocoder  geocode.Resolver
	publisher notify.Publisher
	opts      ProfileOptions
	log       zerolog.Logger
}

// NewProfileService creates a new ProfileService. publisher may be nil.
func NewProfileService(st store.Client, geo geocode.Resolver, pub notify.Publisher, opts ProfileOptions, log zerolog.Logger) *ProfileService {
	if len(opts.PublicFields) == 0 {
		opts.PublicFields = listing.PublicFields
	}
	if len(opts.AdminFields) == 0 {
		opts.AdminFields = listing.AdminFields
	}
	if opts.PageSize <= 0 {
		opts.PageSize = listing.DefaultPageSize
	}
	return &ProfileService{
		store:     st,
		geocoder:  geo,
		publisher: pub,
		opts:      opts,
		log:       log.With().Str("component", "profile_service").Logger(),
	}
}

// PublicListing fetches the list anonymously and returns the requested page
// of the profiles matching query over the public field set.
func (s *ProfileService) PublicListing(ctx context.Context, query string, page int) (*Listing, error) {
	profiles, err := s.store.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return s.page(profiles, s.opts.PublicFields, query, page), nil
}

// AdminListing is PublicListing with the session's bearer token attached and
// the admin field set.
func (s *ProfileService) AdminListing(ctx context.Context, sess *session.Session, query string, page int) (*Listing, error) {
	profiles, err := s.store.List(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return s.page(profiles, s.opts.AdminFields, query, page), nil
}

// page builds a fresh listing view and navigates to page. Out-of-range pages
// leave the view on page 1.
func (s *ProfileService) page(profiles []model.Profile, fields listing.FieldSet, query string, page int) *Listing {
	v := listing.NewView(fields, s.opts.PageSize)
	v.SetProfiles(profiles)
	v.SetQuery(query)
	v.GoTo(page)

	return &Listing{
		Query:      v.Query(),
		Items:      v.Items(),
		Pagination: v.Pagination(),
	}
}

// Get returns one profile.
func (s *ProfileService) Get(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	return p, nil
}

// Detail returns a profile with its map view. Geocoding failures fall back
// to the default centre.
func (s *ProfileService) Detail(ctx context.Context, id model.ProfileID) (*model.ProfileDetail, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ProfileDetail{
		Profile: *p,
		Map:     geocode.MapView(ctx, s.geocoder, p.Location),
	}, nil
}

// Create stores a new profile. On success the caller must re-request the list.
func (s *ProfileService) Create(ctx context.Context, sess *session.Session, in model.ProfileInput) (*model.Profile, error) {
	p, err := s.store.Create(ctx, sess, in)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.announce(ctx, model.ChangeCreated, p.ID)
	return p, nil
}

// Update replaces profile id. On success the caller must re-request the list.
func (s *ProfileService) Update(ctx context.Context, sess *session.Session, id model.ProfileID, in model.ProfileInput) (*model.Profile, error) {
	p, err := s.store.Update(ctx, sess, id, in)
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", id, err)
	}
	s.announce(ctx, model.ChangeUpdated, id)
	return p, nil
}

// Delete removes profile id. On success the caller must re-request the list.
func (s *ProfileService) Delete(ctx context.Context, sess *session.Session, id model.ProfileID) error {
	if err := s.store.Delete(ctx, sess, id); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	s.announce(ctx, model.ChangeDeleted, id)
	return nil
}

func (s *ProfileService) announce(ctx context.Context, action model.ChangeAction, id model.ProfileID) {
	if s.publisher == nil {
		return
	}
	ev := model.ChangeEvent{Action: action, ID: id}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("action", string(action)).Str("id", string(id)).Msg("Change event not published")
	}
}
