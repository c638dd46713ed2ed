package listing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/profile-directory/internal/model"
)

// Field names a searchable profile attribute.
type Field string

const (
	FieldName        Field = "name"
	FieldLocation    Field = "location"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldDescription Field = "description"
)

// FieldSet is the ordered set of attributes a query is matched against.
type FieldSet []Field

var (
	// PublicFields is the default field set of the public listing.
	PublicFields = FieldSet{FieldName, FieldLocation, FieldEmail, FieldPhone}
	// AdminFields is the default field set of the admin listing.
	AdminFields = FieldSet{FieldName, FieldLocation, FieldEmail, FieldPhone, FieldDescription}
)

// ParseFieldSet converts field names into a FieldSet. Unknown names are an
// error; an empty input yields an empty set.
func ParseFieldSet(names []string) (FieldSet, error) {
	set := make(FieldSet, 0, len(names))
	seen := make(map[Field]bool, len(names))
	for _, n := range names {
		f := Field(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case FieldName, FieldLocation, FieldEmail, FieldPhone, FieldDescription:
		default:
			return nil, fmt.Errorf("unknown search field %q", n)
		}
		if !seen[f] {
			seen[f] = true
			set = append(set, f)
		}
	}
	return set, nil
}

// ErrNoSearchFields reports a configured field list with no names in it.
var ErrNoSearchFields = errors.New("no search fields configured")

// ResolveFieldSet parses names and falls back to def when a name is unknown
// or the list is empty. The returned error says why def was used.
func ResolveFieldSet(names []string, def FieldSet) (FieldSet, error) {
	set, err := ParseFieldSet(names)
	if err != nil {
		return def, err
	}
	if len(set) == 0 {
		return def, ErrNoSearchFields
	}
	return set, nil
}

func (f Field) value(p *model.Profile) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldLocation:
		return p.Location
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	case FieldDescription:
		return p.Description
	}
	return ""
}

// Filter returns the profiles where the lower-cased query is a substring of at
// least one field in fields, preserving input order. An empty query returns
// profiles unchanged.
func Filter(profiles []model.Profile, query string, fields FieldSet) []model.Profile {
	if query == "" {
		return profiles
	}
	q := strings.ToLower(query)

	out := make([]model.Profile, 0, len(profiles))
	for i := range profiles {
		if matches(&profiles[i], q, fields) {
			out = append(out, profiles[i])
		}
	}
	return out
}

func matches(p *model.Profile, q string, fields FieldSet) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.value(p)), q) {
			return true
		}
	}
	return false
}
