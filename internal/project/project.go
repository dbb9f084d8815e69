// Package project loads project definition files: the classes, writing
// systems, possibility lists, fields and objects a session is seeded with.
package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

//go:embed project.schema.json
var definitionSchemaJSON []byte

// firstFieldID is the id assigned to the first field that does not declare one.
const firstFieldID = 1001

// Definition mirrors the project file layout.
type Definition struct {
	Name           string            `yaml:"name" json:"name"`
	WritingSystems WritingSystemsDef `yaml:"writing_systems" json:"writing_systems"`
	ClassDefs      []ClassDef        `yaml:"classes" json:"classes"`
	Lists          []ListDef         `yaml:"lists" json:"lists"`
	Fields         []FieldDef        `yaml:"fields" json:"fields"`
	Objects        []ObjectDef       `yaml:"objects" json:"objects"`
}

// WritingSystemsDef lists writing-system tags in priority order.
type WritingSystemsDef struct {
	Vernacular []string `yaml:"vernacular" json:"vernacular"`
	Analysis   []string `yaml:"analysis" json:"analysis"`
}

// ClassDef declares one object class.
type ClassDef struct {
	Name string `yaml:"name" json:"name"`
	Base string `yaml:"base,omitempty" json:"base,omitempty"`
}

// ListDef declares one possibility list.
type ListDef struct {
	ID    string    `yaml:"id,omitempty" json:"id,omitempty"`
	Name  string    `yaml:"name" json:"name"`
	Items []ItemDef `yaml:"items" json:"items"`
}

// ItemDef declares one possibility item.
type ItemDef struct {
	ID           string `yaml:"id,omitempty" json:"id,omitempty"`
	Name         string `yaml:"name" json:"name"`
	Abbreviation string `yaml:"abbreviation,omitempty" json:"abbreviation,omitempty"`
}

// FieldDef declares one field. Custom defaults to true.
type FieldDef struct {
	ID          int    `yaml:"id,omitempty" json:"id,omitempty"`
	Class       string `yaml:"class" json:"class"`
	Name        string `yaml:"name" json:"name"`
	Category    string `yaml:"category" json:"category"`
	Custom      *bool  `yaml:"custom,omitempty" json:"custom,omitempty"`
	Role        string `yaml:"role,omitempty" json:"role,omitempty"`
	List        string `yaml:"list,omitempty" json:"list,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ObjectDef declares one pre-existing object.
type ObjectDef struct {
	ID    int64  `yaml:"id" json:"id"`
	Class string `yaml:"class" json:"class"`
}

// Project is a definition resolved into the types the session exposes.
type Project struct {
	Name       string
	Vernacular []types.WritingSystem
	Analysis   []types.WritingSystem
	Classes    []types.ClassInfo
	Lists      []types.PossibilityList
	Fields     []types.FieldDescriptor
	Objects    []types.Object
}

// LoadFile reads, validates and resolves a project definition file.
func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	zap.L().Info("loaded project definition",
		zap.String("path", path),
		zap.String("project", p.Name),
		zap.Int("fields", len(p.Fields)),
		zap.Int("lists", len(p.Lists)))
	return p, nil
}

// Parse validates YAML (or JSON) project data against the definition schema
// and resolves it.
func Parse(data []byte) (*Project, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	if err := validateDefinition(raw); err != nil {
		return nil, err
	}
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	return def.Resolve()
}

var resolvedDefinitionSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(definitionSchemaJSON, &s); err != nil {
		return nil, fmt.Errorf("unmarshal project schema: %w", err)
	}
	return s.Resolve(&jsonschema.ResolveOptions{})
})

// validateDefinition checks a decoded document against the embedded JSON
// Schema. The document is round-tripped through JSON so YAML scalars take
// their JSON types.
func validateDefinition(doc any) error {
	resolved, err := resolvedDefinitionSchema()
	if err != nil {
		return fmt.Errorf("resolving project schema: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidProject, err)
	}
	var instance any
	if err := json.Unmarshal(b, &instance); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidProject, err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidProject, err)
	}
	return nil
}

// Resolve assigns writing-system handles, list and item ids (UUID v7) and
// field ids, and checks cross references between sections.
func (d *Definition) Resolve() (*Project, error) {
	p := &Project{Name: d.Name}

	handles := make(map[string]int)
	wsFor := func(tag string) types.WritingSystem {
		h, ok := handles[tag]
		if !ok {
			h = len(handles) + 1
			handles[tag] = h
		}
		return types.WritingSystem{Handle: h, Tag: tag}
	}
	for _, tag := range d.WritingSystems.Vernacular {
		p.Vernacular = append(p.Vernacular, wsFor(tag))
	}
	for _, tag := range d.WritingSystems.Analysis {
		p.Analysis = append(p.Analysis, wsFor(tag))
	}

	classes := make(map[string]bool, len(d.ClassDefs))
	for _, c := range d.ClassDefs {
		classes[c.Name] = true
		p.Classes = append(p.Classes, types.ClassInfo{Name: c.Name, Base: c.Base})
	}

	listIDs := make(map[string]string, len(d.Lists))
	for _, ld := range d.Lists {
		if _, dup := listIDs[ld.Name]; dup {
			return nil, fmt.Errorf("list %q declared twice: %w", ld.Name, types.ErrInvalidProject)
		}
		list := types.PossibilityList{ID: ld.ID, Name: ld.Name}
		if list.ID == "" {
			list.ID = newID()
		}
		for i, it := range ld.Items {
			item := types.PossibilityItem{
				ID:           it.ID,
				ListID:       list.ID,
				Name:         it.Name,
				Abbreviation: it.Abbreviation,
				Ordinal:      i,
			}
			if item.ID == "" {
				item.ID = newID()
			}
			list.Items = append(list.Items, item)
		}
		listIDs[ld.Name] = list.ID
		p.Lists = append(p.Lists, list)
	}

	nextID := firstFieldID
	for _, fd := range d.Fields {
		if fd.ID >= nextID {
			nextID = fd.ID + 1
		}
	}
	for _, fd := range d.Fields {
		if !classes[fd.Class] {
			return nil, fmt.Errorf("field %s.%s: %w", fd.Class, fd.Name, types.ErrUnknownClass)
		}
		cat, err := types.ParseCategory(fd.Category)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", fd.Class, fd.Name, err)
		}
		role, err := types.ParseRole(fd.Role)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", fd.Class, fd.Name, err)
		}
		desc := types.FieldDescriptor{
			ID:          fd.ID,
			OwningClass: fd.Class,
			Name:        fd.Name,
			Category:    cat,
			IsCustom:    fd.Custom == nil || *fd.Custom,
			Role:        role,
			Description: fd.Description,
		}
		if desc.ID == 0 {
			desc.ID = nextID
			nextID++
		}
		if cat.IsReference() {
			id, ok := listIDs[fd.List]
			if !ok {
				return nil, fmt.Errorf("field %s: list %q: %w", desc.QualifiedName(), fd.List, types.ErrUnknownList)
			}
			desc.ListID = id
		} else if fd.List != "" {
			return nil, fmt.Errorf("field %s: list on %s field: %w", desc.QualifiedName(), cat, types.ErrInvalidProject)
		}
		if role != types.RoleUnspecified && cat != types.CategoryMultilingualText {
			return nil, fmt.Errorf("field %s: role on %s field: %w", desc.QualifiedName(), cat, types.ErrInvalidProject)
		}
		p.Fields = append(p.Fields, desc)
	}

	seen := make(map[int64]bool, len(d.Objects))
	for _, o := range d.Objects {
		if seen[o.ID] {
			return nil, fmt.Errorf("object %d declared twice: %w", o.ID, types.ErrInvalidProject)
		}
		if !classes[o.Class] {
			return nil, fmt.Errorf("object %d: class %q: %w", o.ID, o.Class, types.ErrUnknownClass)
		}
		seen[o.ID] = true
		p.Objects = append(p.Objects, types.Object{ID: o.ID, Class: o.Class})
	}
	return p, nil
}

// List returns the resolved list with the given id.
func (p *Project) List(id string) (*types.PossibilityList, bool) {
	for i := range p.Lists {
		if p.Lists[i].ID == id {
			return &p.Lists[i], true
		}
	}
	return nil, false
}

// newID generates a UUID v7 for list and item ids.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
