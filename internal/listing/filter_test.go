package listing

import (
	"strconv"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/profile-directory/internal/model"
)

func fakeProfiles(n int) []model.Profile {
	out := make([]model.Profile, n)
	for i := range out {
		out[i] = model.Profile{
			ID:          model.ProfileID(strconv.Itoa(i + 1)),
			Name:        gofakeit.Name(),
			Description: gofakeit.JobTitle(),
			Location:    gofakeit.City(),
			Email:       gofakeit.Email(),
			Phone:       gofakeit.Phone(),
		}
	}
	return out
}

func TestFilterMatchesNameCaseInsensitive(t *testing.T) {
	profiles := []model.Profile{
		{ID: "1", Name: "John Doe"},
		{ID: "2", Name: "Jane"},
	}

	got := Filter(profiles, "john", PublicFields)

	if diff := cmp.Diff([]model.Profile{{ID: "1", Name: "John Doe"}}, got); diff != "" {
		t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	profiles := fakeProfiles(30)

	got := Filter(profiles, "", AdminFields)

	if diff := cmp.Diff(profiles, got); diff != "" {
		t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterRespectsFieldSet(t *testing.T) {
	profiles := []model.Profile{
		{ID: "1", Name: "Ann", Description: "Gardener in the hills"},
		{ID: "2", Name: "Bob", Location: "Garden Grove"},
	}

	public := Filter(profiles, "garden", PublicFields)
	admin := Filter(profiles, "GARDEN", AdminFields)

	require.Len(t, public, 1)
	assert.Equal(t, model.ProfileID("2"), public[0].ID)
	assert.Len(t, admin, 2)
}

func TestFilterEachFieldMatches(t *testing.T) {
	p := model.Profile{
		ID:          "1",
		Name:        "Name-X",
		Location:    "Loc-Y",
		Email:       "mail@z.example",
		Phone:       "+1 555 0100",
		Description: "Desc-W",
	}
	for _, q := range []string{"name-x", "loc-y", "@Z.EXAMPLE", "555 01", "desc-w"} {
		assert.Len(t, Filter([]model.Profile{p}, q, AdminFields), 1, "query %q", q)
	}
	assert.Empty(t, Filter([]model.Profile{p}, "desc-w", PublicFields))
}

func TestFilterIsOrderedSubsequence(t *testing.T) {
	profiles := fakeProfiles(200)

	for _, q := range []string{"a", "e", "on", "1", "@"} {
		got := Filter(profiles, q, PublicFields)

		// Every result matches and appears in the same relative order.
		next := 0
		for _, p := range got {
			assert.True(t, matches(&p, strings.ToLower(q), PublicFields), "query %q, profile %s", q, p.ID)
			for next < len(profiles) && profiles[next].ID != p.ID {
				next++
			}
			require.Less(t, next, len(profiles), "query %q: %s out of order", q, p.ID)
			next++
		}
	}
}

func TestParseFieldSet(t *testing.T) {
	set, err := ParseFieldSet([]string{"Name", " email ", "name"})
	require.NoError(t, err)
	assert.Equal(t, FieldSet{FieldName, FieldEmail}, set)

	_, err = ParseFieldSet([]string{"name", "avatar"})
	assert.Error(t, err)
}

func TestResolveFieldSetFallsBack(t *testing.T) {
	john := []model.Profile{{ID: "1", Name: "John Doe"}}

	tests := []struct {
		name    string
		names   []string
		want    FieldSet
		wantErr error
	}{
		{"configured", []string{"email", "name"}, FieldSet{FieldEmail, FieldName}, nil},
		{"unknown name", []string{"name", "avatar"}, PublicFields, nil},
		{"empty list", []string{}, PublicFields, ErrNoSearchFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ResolveFieldSet(tt.names, PublicFields)

			assert.Equal(t, tt.want, set)
			if tt.name == "configured" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Len(t, Filter(john, "john", set), 1)
		})
	}
}
