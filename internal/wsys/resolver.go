// Package wsys resolves writing systems for multilingual text and selects the
// most useful alternative of a multilingual value.
package wsys

import (
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/language"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// Resolver holds a project's ordered vernacular and analysis writing systems.
// It is immutable after construction and safe to share.
type Resolver struct {
	vernacular []types.WritingSystem
	analysis   []types.WritingSystem
	byTag      map[string]types.WritingSystem // keyed by canonical tag
	byHandle   map[int]types.WritingSystem
}

// NewResolver builds a Resolver from the two ordered lists. A writing system
// may appear in both lists. Returns ErrNoWritingSystems if either list is
// empty.
func NewResolver(vernacular, analysis []types.WritingSystem) (*Resolver, error) {
	if len(vernacular) == 0 {
		return nil, fmt.Errorf("vernacular: %w", types.ErrNoWritingSystems)
	}
	if len(analysis) == 0 {
		return nil, fmt.Errorf("analysis: %w", types.ErrNoWritingSystems)
	}
	r := &Resolver{
		vernacular: slices.Clone(vernacular),
		analysis:   slices.Clone(analysis),
		byTag:      make(map[string]types.WritingSystem),
		byHandle:   make(map[int]types.WritingSystem),
	}
	for _, ws := range slices.Concat(vernacular, analysis) {
		if ws.Tag == "" || ws.Handle == 0 {
			return nil, fmt.Errorf("writing system %+v: %w", ws, types.ErrNullArgument)
		}
		key := canonicalTag(ws.Tag)
		if prev, ok := r.byTag[key]; ok && prev.Handle != ws.Handle {
			return nil, fmt.Errorf("writing system %q registered with handles %d and %d: %w",
				ws.Tag, prev.Handle, ws.Handle, types.ErrInvalidProject)
		}
		r.byTag[key] = ws
		r.byHandle[ws.Handle] = ws
	}
	return r, nil
}

// FromSession builds a Resolver from the session's writing-system registry.
func FromSession(s types.Session) (*Resolver, error) {
	if s == nil {
		return nil, types.ErrNullArgument
	}
	vern, anal, err := s.WritingSystems()
	if err != nil {
		return nil, fmt.Errorf("enumerating writing systems: %w", err)
	}
	return NewResolver(vern, anal)
}

// Resolve turns a writing-system reference into a registered WritingSystem.
// It accepts a types.WritingSystem (or pointer), an int handle, or a string
// tag. An already-resolved writing system is returned unchanged when it is
// registered.
func (r *Resolver) Resolve(ref any) (types.WritingSystem, error) {
	switch v := ref.(type) {
	case nil:
		return types.WritingSystem{}, types.ErrNullArgument
	case types.WritingSystem:
		if v.IsZero() {
			return types.WritingSystem{}, types.ErrNullArgument
		}
		if v.Tag != "" {
			return r.ResolveTag(v.Tag)
		}
		return r.ResolveHandle(v.Handle)
	case *types.WritingSystem:
		if v == nil {
			return types.WritingSystem{}, types.ErrNullArgument
		}
		return r.Resolve(*v)
	case int:
		return r.ResolveHandle(v)
	case string:
		return r.ResolveTag(v)
	default:
		return types.WritingSystem{}, fmt.Errorf("writing system reference of type %T: %w", ref, types.ErrUnknownWritingSystem)
	}
}

// ResolveTag returns the writing system registered under tag. Tags are
// compared in canonical BCP-47 form, so "EN-us" finds "en-US".
func (r *Resolver) ResolveTag(tag string) (types.WritingSystem, error) {
	if tag == "" {
		return types.WritingSystem{}, types.ErrNullArgument
	}
	ws, ok := r.byTag[canonicalTag(tag)]
	if !ok {
		return types.WritingSystem{}, fmt.Errorf("%q: %w", tag, types.ErrUnknownWritingSystem)
	}
	return ws, nil
}

// ResolveHandle returns the writing system with the given store handle.
func (r *Resolver) ResolveHandle(handle int) (types.WritingSystem, error) {
	if handle == 0 {
		return types.WritingSystem{}, types.ErrNullArgument
	}
	ws, ok := r.byHandle[handle]
	if !ok {
		return types.WritingSystem{}, fmt.Errorf("handle %d: %w", handle, types.ErrUnknownWritingSystem)
	}
	return ws, nil
}

// DefaultVernacular returns the first vernacular writing system.
func (r *Resolver) DefaultVernacular() types.WritingSystem {
	return r.vernacular[0]
}

// DefaultAnalysis returns the first analysis writing system.
func (r *Resolver) DefaultAnalysis() types.WritingSystem {
	return r.analysis[0]
}

// Default returns the default writing system for a field role. The second
// result is false for RoleUnspecified.
func (r *Resolver) Default(role types.Role) (types.WritingSystem, bool) {
	switch role {
	case types.RoleVernacular:
		return r.DefaultVernacular(), true
	case types.RoleAnalysis:
		return r.DefaultAnalysis(), true
	default:
		return types.WritingSystem{}, false
	}
}

// Vernacular returns the vernacular writing systems in priority order.
func (r *Resolver) Vernacular() []types.WritingSystem {
	return slices.Clone(r.vernacular)
}

// Analysis returns the analysis writing systems in priority order.
func (r *Resolver) Analysis() []types.WritingSystem {
	return slices.Clone(r.analysis)
}

// All returns every registered writing system, vernacular first, without
// duplicates.
func (r *Resolver) All() []types.WritingSystem {
	seen := make(map[int]bool, len(r.byHandle))
	out := make([]types.WritingSystem, 0, len(r.byHandle))
	for _, ws := range slices.Concat(r.vernacular, r.analysis) {
		if seen[ws.Handle] {
			continue
		}
		seen[ws.Handle] = true
		out = append(out, ws)
	}
	return out
}

// BestString returns the first non-empty alternative of v, searching the
// analysis writing systems in order and then the vernacular ones. Returns ""
// when neither list has text.
func (r *Resolver) BestString(v types.MultilingualValue) string {
	if s, ok := firstText(v, r.analysis); ok {
		return s
	}
	s, _ := firstText(v, r.vernacular)
	return s
}

// BestVernacularString is BestString with the search order reversed:
// vernacular first, then analysis.
func (r *Resolver) BestVernacularString(v types.MultilingualValue) string {
	if s, ok := firstText(v, r.vernacular); ok {
		return s
	}
	s, _ := firstText(v, r.analysis)
	return s
}

// firstText returns the text of the first writing system in order that v has
// non-empty text for. Keys of v are matched by canonical tag, so "EN" finds
// the "en" writing system; an exact key wins over a differently cased one.
func firstText(v types.MultilingualValue, order []types.WritingSystem) (string, bool) {
	var canon map[string]string
	for _, ws := range order {
		if s := Normalize(v[ws.Tag]); s != "" {
			return s, true
		}
		if canon == nil {
			canon = canonicalKeys(v)
		}
		if s := canon[canonicalTag(ws.Tag)]; s != "" {
			return s, true
		}
	}
	return "", false
}

// canonicalKeys maps the canonical form of every key of v to its non-empty
// text. Keys are visited in sorted order so colliding keys resolve the same
// way every time.
func canonicalKeys(v types.MultilingualValue) map[string]string {
	out := make(map[string]string, len(v))
	for _, tag := range slices.Sorted(maps.Keys(v)) {
		s := Normalize(v[tag])
		if s == "" {
			continue
		}
		if c := canonicalTag(tag); out[c] == "" {
			out[c] = s
		}
	}
	return out
}

// Normalize maps the store's null marker to the empty string.
func Normalize(text string) string {
	if text == types.NullMarker {
		return ""
	}
	return text
}

// canonicalTag returns the canonical BCP-47 form of tag, or tag unchanged when
// it does not parse.
func canonicalTag(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}
