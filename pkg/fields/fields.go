// Package fields is the public entry point of the field access layer. An
// Accessor bundles the schema catalog, writing-system resolver, value
// marshaller and list editor of one open session.
package fields

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/lexfields/internal/fields"
	"github.com/mesh-intelligence/lexfields/internal/memstore"
	"github.com/mesh-intelligence/lexfields/internal/project"
	"github.com/mesh-intelligence/lexfields/internal/schema"
	"github.com/mesh-intelligence/lexfields/internal/sqlite"
	"github.com/mesh-intelligence/lexfields/internal/wsys"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// Marshaller reads and writes field values by category.
type Marshaller = fields.Marshaller

// ListEditor edits select and tags fields.
type ListEditor = fields.ListEditor

// Accessor reads and writes field values of one session.
type Accessor struct {
	session types.Session
	catalog *schema.Catalog
	ws      *wsys.Resolver
	m       *fields.Marshaller
	closer  func() error
}

// Open builds an Accessor over an already open session. The catalog and
// writing systems are read once; schema changes made afterwards are not seen.
func Open(s types.Session) (*Accessor, error) {
	if s == nil {
		return nil, types.ErrNullArgument
	}
	catalog, err := schema.Load(s)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	resolver, err := wsys.FromSession(s)
	if err != nil {
		return nil, fmt.Errorf("loading writing systems: %w", err)
	}
	m, err := fields.NewMarshaller(s, catalog, resolver)
	if err != nil {
		return nil, err
	}
	return &Accessor{session: s, catalog: catalog, ws: resolver, m: m}, nil
}

// Attach opens the session described by config and builds an Accessor over
// it. Close releases the session.
func Attach(config types.Config) (*Accessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var (
		s      types.Session
		closer func() error
	)
	switch config.Backend {
	case types.BackendSQLite:
		b := sqlite.NewBackend()
		if err := b.Attach(config); err != nil {
			return nil, err
		}
		s, closer = b, b.Detach
	case types.BackendMemory:
		if config.ProjectFile == "" {
			return nil, fmt.Errorf("memory backend needs a project file: %w", types.ErrInvalidProject)
		}
		p, err := project.LoadFile(config.ProjectFile)
		if err != nil {
			return nil, err
		}
		mem, err := memstore.New(p, config.ReadOnly)
		if err != nil {
			return nil, err
		}
		s = mem
	}
	a, err := Open(s)
	if err != nil {
		if closer != nil {
			err = errors.Join(err, closer())
		}
		return nil, err
	}
	a.closer = closer
	return a, nil
}

// Close releases the session if the Accessor opened it.
func (a *Accessor) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

// Session returns the underlying session.
func (a *Accessor) Session() types.Session { return a.session }

// Catalog returns the schema catalog.
func (a *Accessor) Catalog() *schema.Catalog { return a.catalog }

// Resolver returns the writing-system resolver.
func (a *Accessor) Resolver() *wsys.Resolver { return a.ws }

// Marshaller returns the value marshaller.
func (a *Accessor) Marshaller() *fields.Marshaller { return a.m }

// Lists returns the editor for select and tags fields.
func (a *Accessor) Lists() *fields.ListEditor { return a.m.Lists() }

// Object resolves an object id.
func (a *Accessor) Object(id int64) (types.Object, error) {
	return a.m.Object(id)
}

// CreateObject adds an object of class. Returns ErrReadOnlyProject when the
// session cannot create objects.
func (a *Accessor) CreateObject(class string) (types.Object, error) {
	c, ok := a.session.(types.ObjectCreator)
	if !ok {
		return types.Object{}, types.ErrReadOnlyProject
	}
	return c.CreateObject(class)
}

// Field resolves a field reference for obj. ref is either "Class.Name" or a
// bare name looked up on the object's class and its bases.
func (a *Accessor) Field(obj types.Object, ref string) (types.FieldDescriptor, error) {
	if ref == "" {
		return types.FieldDescriptor{}, types.ErrNullArgument
	}
	if class, name, ok := strings.Cut(ref, "."); ok && a.catalog.HasClass(class) {
		fd, err := a.catalog.ResolveField(class, name)
		if err != nil {
			return fd, err
		}
		if obj.Class != "" && !a.catalog.IsA(obj.Class, fd.OwningClass) {
			return fd, fmt.Errorf("%s on %s: %w", fd.QualifiedName(), obj.Class, types.ErrWrongObjectClass)
		}
		return fd, nil
	}
	return a.catalog.ResolveField(obj.Class, ref)
}

// Record is one exported field value.
type Record = fields.Record

// Export returns every non-empty field value of every object.
func (a *Accessor) Export() ([]Record, error) {
	return a.m.Export()
}

// Import writes records after validating all of them. It returns the number
// of values written.
func (a *Accessor) Import(records []Record) (int, error) {
	return a.m.Import(records)
}
