package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

func TestLoadFile(t *testing.T) {
	p, err := LoadFile(filepath.Join("testdata", "sena.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Sena 3", p.Name)
	assert.Equal(t, []types.WritingSystem{{Handle: 1, Tag: "seh"}, {Handle: 2, Tag: "pt"}}, p.Vernacular)
	assert.Equal(t, []types.WritingSystem{{Handle: 3, Tag: "fr"}, {Handle: 4, Tag: "en"}, {Handle: 5, Tag: "es"}}, p.Analysis)
	assert.Len(t, p.Classes, 4)
	assert.Len(t, p.Objects, 4)

	require.Len(t, p.Fields, 9)
	byName := make(map[string]types.FieldDescriptor)
	for _, fd := range p.Fields {
		byName[fd.QualifiedName()] = fd
	}

	residue := byName["CmObject.Import Residue"]
	assert.False(t, residue.IsCustom)
	assert.Equal(t, 5002, residue.ID, "ids are assigned after the highest declared id")

	assert.Equal(t, 5001, byName["Entry.Dialect"].ID)
	assert.True(t, byName["Entry.Dialect"].IsCustom)
	assert.Equal(t, types.RoleAnalysis, byName["Entry.Note"].Role)
	assert.Equal(t, types.RoleVernacular, byName["Entry.Alternate Form"].Role)
	assert.Equal(t, types.RoleUnspecified, byName["Entry.Comment"].Role)

	register := byName["Entry.Register"]
	assert.Equal(t, types.CategorySingleSelect, register.Category)
	list, ok := p.List(register.ListID)
	require.True(t, ok)
	assert.Equal(t, "Register", list.Name)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "fml", list.Items[0].Abbreviation)
	assert.Equal(t, 2, list.Items[2].Ordinal)
	assert.Equal(t, list.ID, list.Items[1].ListID)
	assert.NotEmpty(t, list.Items[1].ID)

	assert.Equal(t, types.CategoryMultiSelect, byName["Sense.Domains"].Category)
}

func TestParseErrors(t *testing.T) {
	base := `
writing_systems:
  vernacular: [seh]
  analysis: [en]
classes:
  - name: Entry
`
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "missing writing systems",
			doc:     "classes:\n  - name: Entry\n",
			wantErr: types.ErrInvalidProject,
		},
		{
			name:    "empty analysis list",
			doc:     "writing_systems:\n  vernacular: [seh]\n  analysis: []\nclasses:\n  - name: Entry\n",
			wantErr: types.ErrInvalidProject,
		},
		{
			name:    "bad category",
			doc:     base + "fields:\n  - class: Entry\n    name: X\n    category: float\n",
			wantErr: types.ErrInvalidProject,
		},
		{
			name:    "select without list",
			doc:     base + "fields:\n  - class: Entry\n    name: X\n    category: select\n",
			wantErr: types.ErrUnknownList,
		},
		{
			name:    "list on text field",
			doc:     base + "lists:\n  - name: L\nfields:\n  - class: Entry\n    name: X\n    category: text\n    list: L\n",
			wantErr: types.ErrInvalidProject,
		},
		{
			name:    "role on integer field",
			doc:     base + "fields:\n  - class: Entry\n    name: X\n    category: integer\n    role: analysis\n",
			wantErr: types.ErrInvalidProject,
		},
		{
			name:    "unknown field class",
			doc:     base + "fields:\n  - class: Sense\n    name: X\n    category: integer\n",
			wantErr: types.ErrUnknownClass,
		},
		{
			name:    "duplicate object",
			doc:     base + "objects:\n  - {id: 1, class: Entry}\n  - {id: 1, class: Entry}\n",
			wantErr: types.ErrInvalidProject,
		},
		{
			name:    "object of unknown class",
			doc:     base + "objects:\n  - {id: 1, class: Sense}\n",
			wantErr: types.ErrUnknownClass,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseKeepsDeclaredIDs(t *testing.T) {
	doc := `
writing_systems:
  vernacular: [seh]
  analysis: [en]
classes:
  - name: Entry
lists:
  - id: list-register
    name: Register
    items:
      - id: item-formal
        name: Formal
fields:
  - class: Entry
    name: Register
    category: select
    list: Register
`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, p.Lists, 1)
	assert.Equal(t, "list-register", p.Lists[0].ID)
	assert.Equal(t, "item-formal", p.Lists[0].Items[0].ID)
	assert.Equal(t, "list-register", p.Fields[0].ListID)
	assert.Equal(t, firstFieldID, p.Fields[0].ID)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
