package genius

import (
	"encoding/json"
	"errors"
)

// Hit is one entry of a search response. Result wraps the matched content
// object (usually a song) and its primary artist. Raw keeps the entry verbatim.
type Hit struct {
	Index  string          `json:"index"`
	Type   string          `json:"type"`
	Result *HitResult      `json:"result"`
	Raw    json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes a hit as far as its shape allows. A field of an
// unexpected type is left at its zero value instead of failing the whole
// search; PrimaryArtistID then reports whatever is missing.
func (h *Hit) UnmarshalJSON(data []byte) error {
	type plain Hit
	var p plain
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal(data, &p); err != nil && !errors.As(err, &typeErr) {
		return err
	}
	*h = Hit(p)
	h.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// HitResult is the content object a search hit points at.
type HitResult struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	FullTitle     string         `json:"full_title"`
	URL           string         `json:"url"`
	PrimaryArtist *PrimaryArtist `json:"primary_artist"`
}

// PrimaryArtist is the principal credited artist of a hit's content object.
type PrimaryArtist struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PrimaryArtistID returns result.primary_artist.id, or false when any part of
// the path is missing.
func (h Hit) PrimaryArtistID() (int64, bool) {
	if h.Result == nil || h.Result.PrimaryArtist == nil || h.Result.PrimaryArtist.ID == nil {
		return 0, false
	}
	return *h.Result.PrimaryArtist.ID, true
}

// PrimaryArtistName returns the hit's primary artist name, or "" if absent.
func (h Hit) PrimaryArtistName() string {
	if h.Result == nil || h.Result.PrimaryArtist == nil {
		return ""
	}
	return h.Result.PrimaryArtist.Name
}

// Artist is the artist object returned by the artists endpoint. The known
// fields are optional; Raw keeps the object verbatim so fields this package
// does not model pass through untouched.
type Artist struct {
	ID             *int64
	Name           *string
	FollowersCount *int64
	Raw            json.RawMessage
}

// UnmarshalJSON decodes the known fields and retains the full object in Raw.
func (a *Artist) UnmarshalJSON(data []byte) error {
	var known struct {
		ID             *int64  `json:"id"`
		Name           *string `json:"name"`
		FollowersCount *int64  `json:"followers_count"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	a.ID = known.ID
	a.Name = known.Name
	a.FollowersCount = known.FollowersCount
	a.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits Raw when present, otherwise the known fields.
func (a Artist) MarshalJSON() ([]byte, error) {
	if len(a.Raw) > 0 {
		return a.Raw, nil
	}
	return json.Marshal(struct {
		ID             *int64  `json:"id,omitempty"`
		Name           *string `json:"name,omitempty"`
		FollowersCount *int64  `json:"followers_count,omitempty"`
	}{a.ID, a.Name, a.FollowersCount})
}

// NameOr returns the artist name, or fallback when the field is absent.
func (a *Artist) NameOr(fallback string) string {
	if a == nil || a.Name == nil {
		return fallback
	}
	return *a.Name
}

// Followers returns followers_count, or 0 when the field is absent.
func (a *Artist) Followers() int64 {
	if a == nil || a.FollowersCount == nil {
		return 0
	}
	return *a.FollowersCount
}

// Field decodes a passthrough field of the raw object into v. It reports
// false when the field is absent.
func (a *Artist) Field(name string, v any) (bool, error) {
	if a == nil || len(a.Raw) == 0 {
		return false, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(a.Raw, &fields); err != nil {
		return false, err
	}
	raw, ok := fields[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// envelopeMeta is the status block Genius attaches to every response.
type envelopeMeta struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// searchEnvelope is the JSON response from the search endpoint.
type searchEnvelope struct {
	Meta     envelopeMeta `json:"meta"`
	Response *struct {
		Hits json.RawMessage `json:"hits"`
	} `json:"response"`
}

// artistEnvelope is the JSON response from the artists endpoint.
type artistEnvelope struct {
	Meta     envelopeMeta `json:"meta"`
	Response *struct {
		Artist *json.RawMessage `json:"artist"`
	} `json:"response"`
}
