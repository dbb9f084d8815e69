package fields

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

func populate(t *testing.T, f *fixture) {
	t.Helper()
	require.NoError(t, f.m.WriteString(f.entry, fDialect, "Northern"))
	require.NoError(t, f.m.WriteMultiString(f.entry, fNote, "en", "migrated bird"))
	require.NoError(t, f.m.WriteInteger(f.entry, fFrequency, 3))
	require.NoError(t, f.m.WriteDate(f.entry, fRecorded, types.NewGenDate(1998, time.March, 14, types.PrecisionBefore)))
	require.NoError(t, f.lists.SetSingle(f.entry, fRegister, "Slang"))
	require.NoError(t, f.lists.SetTags(f.sense, fDomains, "Birds", "Animals"))
	require.NoError(t, f.m.WriteString(f.sense, fResidue, "\\ge bird"))
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	populate(t, f)

	records, err := f.m.Export()
	require.NoError(t, err)

	got := make(map[string]string, len(records))
	for _, r := range records {
		got[r.Field+"@"+r.Class] = string(r.Value)
	}
	assert.Equal(t, map[string]string{
		"Entry.Dialect@Entry":           `"Northern"`,
		"Entry.Note@Entry":              `{"en":"migrated bird"}`,
		"Entry.Frequency@Entry":         `3`,
		"Entry.Recorded@Entry":          `{"date":"1998-03-14","precision":"before"}`,
		"Entry.Register@Entry":          `["Slang"]`,
		"Sense.Domains@Sense":           `["Birds","Animals"]`,
		"CmObject.Import Residue@Sense": `"\\ge bird"`,
	}, got)
	assert.Equal(t, int64(1), records[0].Object, "records follow object order")
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newFixture(t)
	populate(t, src)
	records, err := src.m.Export()
	require.NoError(t, err)

	b, err := json.Marshal(records)
	require.NoError(t, err)
	var decoded []Record
	require.NoError(t, json.Unmarshal(b, &decoded))

	dst := newFixture(t)
	n, err := dst.m.Import(decoded)
	require.NoError(t, err)
	assert.Equal(t, len(records), n)

	again, err := dst.m.Export()
	require.NoError(t, err)
	assert.Equal(t, records, again)
}

func TestImportValidatesBeforeWriting(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantErr error
	}{
		{"unknown object", Record{Object: 404, Field: "Entry.Dialect", Value: json.RawMessage(`"x"`)}, types.ErrObjectNotFound},
		{"unknown field", Record{Object: 1, Field: "Entry.Etymology", Value: json.RawMessage(`"x"`)}, types.ErrUnknownField},
		{"wrong class", Record{Object: 10, Field: "Entry.Dialect", Value: json.RawMessage(`"x"`)}, types.ErrWrongObjectClass},
		{"category changed", Record{Object: 1, Field: "Entry.Dialect", Category: "integer", Value: json.RawMessage(`3`)}, types.ErrCategoryMismatch},
		{"two items for select", Record{Object: 1, Field: "Entry.Register", Value: json.RawMessage(`["Formal","Slang"]`)}, types.ErrCategoryMismatch},
		{"bad precision", Record{Object: 1, Field: "Entry.Recorded", Value: json.RawMessage(`{"date":"1998-03-14","precision":"circa"}`)}, types.ErrInvalidPrecision},
		{"select item not in list", Record{Object: 1, Field: "Entry.Register", Value: json.RawMessage(`["Archaic"]`)}, types.ErrInvalidListItem},
		{"tags item not in list", Record{Object: 10, Field: "Sense.Domains", Value: json.RawMessage(`["Birds","Fish"]`)}, types.ErrInvalidListItem},
		{"unknown writing system", Record{Object: 1, Field: "Entry.Note", Value: json.RawMessage(`{"xx":"y"}`)}, types.ErrUnknownWritingSystem},
		{"two tags for one writing system", Record{Object: 1, Field: "Entry.Note", Value: json.RawMessage(`{"en":"bird","EN":"Bird"}`)}, types.ErrDuplicateAlternative},
		{"precision without a date", Record{Object: 1, Field: "Entry.Recorded", Value: json.RawMessage(`{"date":"0001-01-01","precision":"exact"}`)}, types.ErrNullArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			good := Record{Object: 1, Field: "Entry.Frequency", Value: json.RawMessage(`7`)}
			_, err := f.m.Import([]Record{good, tt.rec})
			assert.ErrorIs(t, err, tt.wantErr)

			n, rerr := f.m.ReadInteger(f.entry, fFrequency)
			require.NoError(t, rerr)
			assert.Zero(t, n, "no record may be written when any record is invalid")
		})
	}
}

func TestImportUnqualifiedFieldName(t *testing.T) {
	f := newFixture(t)
	_, err := f.m.Import([]Record{{Object: 10, Field: "Import Residue", Value: json.RawMessage(`"raw"`)}})
	require.NoError(t, err)
	got, err := f.m.ReadString(f.sense, fResidue)
	require.NoError(t, err)
	assert.Equal(t, "raw", got)
}

func TestImportReadOnly(t *testing.T) {
	f := newReadOnlyFixture(t)
	_, err := f.m.Import([]Record{{Object: 1, Field: "Entry.Frequency", Value: json.RawMessage(`7`)}})
	assert.ErrorIs(t, err, types.ErrReadOnlyProject)
}
