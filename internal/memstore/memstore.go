// Package memstore implements an in-memory project session. It is seeded from
// a project definition and loses every value when the process exits.
package memstore

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/internal/project"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// valueKey addresses one field on one object.
type valueKey struct {
	obj   int64
	field int
}

// Session is an in-memory types.Session and types.ValueStore.
type Session struct {
	mu       sync.RWMutex
	readOnly bool

	proj    *project.Project
	classes map[string]bool
	objects map[int64]types.Object
	nextID  int64

	strings    map[valueKey]string
	multi      map[valueKey]map[int]string
	integers   map[valueKey]int64
	dates      map[valueKey]types.GenDate
	references map[valueKey][]string
}

// New returns a session over the schema and objects of p.
func New(p *project.Project, readOnly bool) (*Session, error) {
	if p == nil {
		return nil, types.ErrNullArgument
	}
	s := &Session{
		readOnly:   readOnly,
		proj:       p,
		classes:    make(map[string]bool, len(p.Classes)),
		objects:    make(map[int64]types.Object, len(p.Objects)),
		strings:    make(map[valueKey]string),
		multi:      make(map[valueKey]map[int]string),
		integers:   make(map[valueKey]int64),
		dates:      make(map[valueKey]types.GenDate),
		references: make(map[valueKey][]string),
	}
	for _, c := range p.Classes {
		s.classes[c.Name] = true
	}
	for _, o := range p.Objects {
		s.objects[o.ID] = o
		s.nextID = max(s.nextID, o.ID)
	}
	zap.L().Info("opened in-memory session",
		zap.String("project", p.Name),
		zap.Int("objects", len(s.objects)),
		zap.Bool("read_only", readOnly))
	return s, nil
}

// OpenForWrite implements types.Session.
func (s *Session) OpenForWrite() bool {
	return !s.readOnly
}

// Classes implements types.Session.
func (s *Session) Classes() ([]types.ClassInfo, error) {
	return slices.Clone(s.proj.Classes), nil
}

// Fields implements types.Session.
func (s *Session) Fields() ([]types.FieldDescriptor, error) {
	return slices.Clone(s.proj.Fields), nil
}

// WritingSystems implements types.Session.
func (s *Session) WritingSystems() ([]types.WritingSystem, []types.WritingSystem, error) {
	return slices.Clone(s.proj.Vernacular), slices.Clone(s.proj.Analysis), nil
}

// PossibilityList implements types.Session.
func (s *Session) PossibilityList(id string) (*types.PossibilityList, error) {
	l, ok := s.proj.List(id)
	if !ok {
		return nil, fmt.Errorf("list %q: %w", id, types.ErrUnknownList)
	}
	cp := *l
	cp.Items = slices.Clone(l.Items)
	return &cp, nil
}

// Object implements types.Session.
func (s *Session) Object(id int64) (types.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[id]
	if !ok {
		return types.Object{}, types.ErrObjectNotFound
	}
	return o, nil
}

// Objects implements types.Session.
func (s *Session) Objects() ([]types.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Collect(maps.Values(s.objects))
	slices.SortFunc(out, func(a, b types.Object) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// CreateObject implements types.ObjectCreator.
func (s *Session) CreateObject(class string) (types.Object, error) {
	if s.readOnly {
		return types.Object{}, types.ErrReadOnlyProject
	}
	if !s.classes[class] {
		return types.Object{}, fmt.Errorf("class %q: %w", class, types.ErrUnknownClass)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o := types.Object{ID: s.nextID, Class: class}
	s.objects[o.ID] = o
	return o, nil
}

// Store implements types.Session.
func (s *Session) Store() types.ValueStore {
	return s
}

// writable guards every mutation of the value store.
func (s *Session) writable() error {
	if s.readOnly {
		return types.ErrReadOnlyProject
	}
	return nil
}

// GetString implements types.ValueStore.
func (s *Session) GetString(obj int64, field int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.strings[valueKey{obj, field}]
	if !ok {
		return types.NullMarker, nil
	}
	return v, nil
}

// SetString implements types.ValueStore.
func (s *Session) SetString(obj int64, field int, text string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := valueKey{obj, field}
	if text == "" {
		delete(s.strings, k)
		return nil
	}
	s.strings[k] = text
	return nil
}

// GetMultiString implements types.ValueStore.
func (s *Session) GetMultiString(obj int64, field int, ws int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.multi[valueKey{obj, field}][ws], nil
}

// GetMultiStrings implements types.ValueStore.
func (s *Session) GetMultiStrings(obj int64, field int) (map[int]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.multi[valueKey{obj, field}]), nil
}

// SetMultiString implements types.ValueStore.
func (s *Session) SetMultiString(obj int64, field int, ws int, text string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := valueKey{obj, field}
	if text == "" {
		delete(s.multi[k], ws)
		if len(s.multi[k]) == 0 {
			delete(s.multi, k)
		}
		return nil
	}
	if s.multi[k] == nil {
		s.multi[k] = make(map[int]string)
	}
	s.multi[k][ws] = text
	return nil
}

// ReplaceMultiStrings implements types.ValueStore.
func (s *Session) ReplaceMultiStrings(obj int64, field int, values map[int]string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := valueKey{obj, field}
	delete(s.multi, k)
	for ws, text := range values {
		if text == "" {
			continue
		}
		if s.multi[k] == nil {
			s.multi[k] = make(map[int]string)
		}
		s.multi[k][ws] = text
	}
	return nil
}

// GetInteger implements types.ValueStore.
func (s *Session) GetInteger(obj int64, field int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.integers[valueKey{obj, field}], nil
}

// SetInteger implements types.ValueStore.
func (s *Session) SetInteger(obj int64, field int, value int64) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.integers[valueKey{obj, field}] = value
	return nil
}

// GetDate implements types.ValueStore.
func (s *Session) GetDate(obj int64, field int) (types.GenDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dates[valueKey{obj, field}], nil
}

// SetDate implements types.ValueStore.
func (s *Session) SetDate(obj int64, field int, value types.GenDate) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := valueKey{obj, field}
	if value.IsZero() {
		delete(s.dates, k)
		return nil
	}
	s.dates[k] = value
	return nil
}

// GetReferences implements types.ValueStore.
func (s *Session) GetReferences(obj int64, field int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.references[valueKey{obj, field}]), nil
}

// ReplaceReferences implements types.ValueStore.
func (s *Session) ReplaceReferences(obj int64, field int, itemIDs []string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := valueKey{obj, field}
	if len(itemIDs) == 0 {
		delete(s.references, k)
		return nil
	}
	s.references[k] = slices.Clone(itemIDs)
	return nil
}

// ClearField implements types.ValueStore.
func (s *Session) ClearField(obj int64, field int) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := valueKey{obj, field}
	delete(s.strings, k)
	delete(s.multi, k)
	delete(s.integers, k)
	delete(s.dates, k)
	delete(s.references, k)
	return nil
}

// PutRaw stores text exactly as given, bypassing normalization. It exists so
// callers can reproduce values written by other tools, such as a literal
// null marker.
func (s *Session) PutRaw(obj int64, field int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strings[valueKey{obj, field}] = text
}

// PutRawMulti stores one multitext alternative exactly as given.
func (s *Session) PutRawMulti(obj int64, field int, ws int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := valueKey{obj, field}
	if s.multi[k] == nil {
		s.multi[k] = make(map[int]string)
	}
	s.multi[k][ws] = text
}
