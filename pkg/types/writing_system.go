package types

import "maps"

// NullMarker is the literal the value store returns for a text field that was
// never set. It is normalized to the empty string wherever text is surfaced.
const NullMarker = "***"

// WritingSystem is one language/script/variant combination. Handle is the
// store's numeric key; Tag is the BCP-47 style tag used to find it.
type WritingSystem struct {
	Handle int
	Tag    string
}

// Equal reports whether two writing systems are the same. Handles are
// store-local, so only tags are compared.
func (ws WritingSystem) Equal(other WritingSystem) bool {
	return ws.Tag == other.Tag
}

// IsZero reports whether the writing system is absent.
func (ws WritingSystem) IsZero() bool {
	return ws.Handle == 0 && ws.Tag == ""
}

// String returns the tag.
func (ws WritingSystem) String() string {
	return ws.Tag
}

// MultilingualValue maps writing-system tags to text. A missing key means no
// text in that writing system; empty strings are never stored.
type MultilingualValue map[string]string

// Get returns the text for a tag, treating NullMarker as absent.
func (v MultilingualValue) Get(tag string) string {
	s := v[tag]
	if s == NullMarker {
		return ""
	}
	return s
}

// Clone returns a copy of v. The copy of a nil value is an empty map.
func (v MultilingualValue) Clone() MultilingualValue {
	out := make(MultilingualValue, len(v))
	maps.Copy(out, v)
	return out
}

// Compact returns a copy of v without empty or NullMarker alternatives.
func (v MultilingualValue) Compact() MultilingualValue {
	out := make(MultilingualValue, len(v))
	for tag, s := range v {
		if s == "" || s == NullMarker {
			continue
		}
		out[tag] = s
	}
	return out
}
