// Package geocode resolves free-text locations to coordinates with a
// Nominatim-compatible search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/stemsi/profile-directory/internal/model"
)

var errNoResult = errors.New("no result")

// lookupTimeout bounds a shared lookup, which runs detached from the
// cancellation of the request that started it.
const lookupTimeout = 10 * time.Second

// Resolver turns a location string into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, location string) (model.Coordinates, bool)
}

// Geocoder queries {baseURL}/search?format=json&q=... . Lookups are rate
// limited and concurrent identical lookups share one request. Results are
// not cached.
type Geocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	group      singleflight.Group
	log        zerolog.Logger
}

var _ Resolver = (*Geocoder)(nil)

// New creates a Geocoder. rps <= 0 disables rate limiting.
func New(baseURL, userAgent string, rps float64, log zerolog.Logger) *Geocoder {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Geocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
		log:        log.With().Str("component", "geocoder").Logger(),
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve returns the coordinates of the first search hit. Any failure or an
// empty result reports false.
func (g *Geocoder) Resolve(ctx context.Context, location string) (model.Coordinates, bool) {
	location = strings.TrimSpace(location)
	if location == "" {
		return model.Coordinates{}, false
	}

	ch := g.group.DoChan(location, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return g.search(lookupCtx, location)
	})

	select {
	case <-ctx.Done():
		return model.Coordinates{}, false
	case res := <-ch:
		if res.Err != nil {
			g.log.Debug().Err(res.Err).Str("location", location).Msg("Geocoding failed")
			return model.Coordinates{}, false
		}
		return res.Val.(model.Coordinates), true
	}
}

func (g *Geocoder) search(ctx context.Context, location string) (model.Coordinates, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return model.Coordinates{}, fmt.Errorf("rate limit: %w", err)
	}

	endpoint := g.baseURL + "/search?format=json&q=" + url.QueryEscape(location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.Coordinates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return model.Coordinates{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return model.Coordinates{}, fmt.Errorf("decode: %w", err)
	}
	if len(results) == 0 {
		return model.Coordinates{}, errNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("lat: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("lon: %w", err)
	}
	return model.Coordinates{Lat: lat, Lng: lng}, nil
}

// MapView centres the map on location, or on the default centre when it
// cannot be resolved.
func MapView(ctx context.Context, r Resolver, location string) model.MapView {
	if r != nil {
		if c, ok := r.Resolve(ctx, location); ok {
			return model.MapView{Center: c, Zoom: model.LocatedZoom, Located: true}
		}
	}
	return model.MapView{Center: model.DefaultCenter, Zoom: model.DefaultZoom}
}
