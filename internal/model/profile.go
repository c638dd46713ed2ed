package model

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ProfileID is the store-assigned identifier. Stores emit it either as a JSON
// string or a number; both decode to the same textual form.
type ProfileID string

// UnmarshalJSON accepts `"abc"` as well as `42`.
func (id *ProfileID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProfileID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ProfileID(n.String())
	return nil
}

// Profile is one directory entry as returned by the profile store.
type Profile struct {
	ID          ProfileID `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar,omitempty"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
}

// Initial returns the fallback avatar glyph: the first letter of the name
// upper-cased, or "?" when the name is empty.
func (p Profile) Initial() string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(p.Name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// HasAvatar reports whether the avatar is a usable absolute http(s) URL.
func (p Profile) HasAvatar() bool {
	return validAvatar(p.Avatar)
}

// ProfileInput is the payload for creating or updating a profile.
type ProfileInput struct {
	Name        string `json:"name" form:"name" binding:"required,max=255"`
	Avatar      string `json:"avatar,omitempty" form:"avatar" binding:"max=2048"`
	Description string `json:"description" form:"description" binding:"required,max=4000"`
	Location    string `json:"location" form:"location" binding:"required,max=255"`
	Email       string `json:"email" form:"email" binding:"required,email,max=255"`
	Phone       string `json:"phone" form:"phone" binding:"required,phone,max=64"`
}

// Normalize trims every field and drops an avatar that is not an absolute
// http(s) URL, so the profile falls back to its initial.
func (in *ProfileInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Avatar = strings.TrimSpace(in.Avatar)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if !validAvatar(in.Avatar) {
		in.Avatar = ""
	}
}

// ProfileInputFrom copies the editable fields of p.
func ProfileInputFrom(p Profile) ProfileInput {
	return ProfileInput{
		Name:        p.Name,
		Avatar:      p.Avatar,
		Description: p.Description,
		Location:    p.Location,
		Email:       p.Email,
		Phone:       p.Phone,
	}
}

func validAvatar(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
