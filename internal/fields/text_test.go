package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

func TestScenarioMultilingualNote(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.m.WriteMultiString(f.entry, fNote, "en", "migrated bird"))
	require.NoError(t, f.m.WriteMultiString(f.entry, fNote, "fr", "oiseau migrateur"))

	best, err := f.m.BestString(f.entry, fNote)
	require.NoError(t, err)
	assert.Equal(t, "oiseau migrateur", best, "fr precedes en in the analysis list")

	es, err := f.m.ReadMultiString(f.entry, fNote, "es")
	require.NoError(t, err)
	assert.Equal(t, "", es)
}

func TestWriteEmptyAlternativeRemovesIt(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.WriteMultiString(f.entry, fNote, "en", "bird"))
	require.NoError(t, f.m.WriteMultiString(f.entry, fNote, "en", ""))

	got, err := f.m.ReadMultiString(f.entry, fNote, "en")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	raw, err := f.session.GetMultiStrings(1, fNote)
	require.NoError(t, err)
	assert.Empty(t, raw, "empty text must not be stored")
}

func TestMultiStringWritingSystemReferences(t *testing.T) {
	f := newFixture(t)
	en, err := f.m.Resolver().ResolveTag("en")
	require.NoError(t, err)

	tests := []struct {
		name string
		ws   any
	}{
		{"tag", "en"},
		{"tag in other case", "EN"},
		{"handle", hEn},
		{"writing system", en},
		{"pointer", &en},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.m.WriteMultiString(f.entry, fNote, tt.ws, "bird "+tt.name))
			got, err := f.m.ReadMultiString(f.entry, fNote, "en")
			require.NoError(t, err)
			assert.Equal(t, "bird "+tt.name, got)
		})
	}
}

func TestMultiStringUnknownWritingSystem(t *testing.T) {
	f := newFixture(t)
	err := f.m.WriteMultiString(f.entry, fNote, "de", "Vogel")
	assert.ErrorIs(t, err, types.ErrUnknownWritingSystem)

	_, err = f.m.ReadMultiString(f.entry, fNote, 99)
	assert.ErrorIs(t, err, types.ErrUnknownWritingSystem)

	err = f.m.WriteAllMultiString(f.entry, fNote, types.MultilingualValue{"en": "bird", "de": "Vogel"})
	assert.ErrorIs(t, err, types.ErrUnknownWritingSystem)
	all, err := f.m.ReadAllMultiString(f.entry, fNote)
	require.NoError(t, err)
	assert.Empty(t, all, "a rejected replacement must not store the valid alternatives")
}

func TestDefaultWritingSystemFollowsRole(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.m.WriteMultiString(f.entry, fNote, nil, "analysis default"))
	got, err := f.m.ReadMultiString(f.entry, fNote, "fr")
	require.NoError(t, err)
	assert.Equal(t, "analysis default", got)

	require.NoError(t, f.m.WriteMultiString(f.entry, fAltForm, nil, "vernacular default"))
	got, err = f.m.ReadMultiString(f.entry, fAltForm, "seh")
	require.NoError(t, err)
	assert.Equal(t, "vernacular default", got)

	got, err = f.m.ReadMultiString(f.entry, fAltForm, nil)
	require.NoError(t, err)
	assert.Equal(t, "vernacular default", got)

	_, err = f.m.ReadMultiString(f.entry, fComment, nil)
	assert.ErrorIs(t, err, types.ErrNullArgument, "fields without a role need an explicit writing system")
	err = f.m.WriteMultiString(f.entry, fComment, nil, "x")
	assert.ErrorIs(t, err, types.ErrNullArgument)

	missing := types.Object{ID: 404, Class: "Entry"}
	_, err = f.m.ReadMultiString(missing, fComment, nil)
	assert.ErrorIs(t, err, types.ErrNullArgument, "the missing writing system is reported before the object lookup")
	assert.NotErrorIs(t, err, types.ErrObjectNotFound)
	err = f.m.WriteMultiString(missing, fComment, nil, "x")
	assert.ErrorIs(t, err, types.ErrNullArgument)
	assert.NotErrorIs(t, err, types.ErrObjectNotFound)

	_, err = f.m.ReadMultiString(missing, fNote, nil)
	assert.ErrorIs(t, err, types.ErrObjectNotFound, "a field with a role falls through to the object lookup")
}

func TestReadAllMultiString(t *testing.T) {
	f := newFixture(t)
	f.session.PutRawMulti(1, fComment, hSeh, "nyama")
	f.session.PutRawMulti(1, fComment, hFr, types.NullMarker)
	f.session.PutRawMulti(1, fComment, 42, "orphan")

	got, err := f.m.ReadAllMultiString(f.entry, fComment)
	require.NoError(t, err)
	assert.Equal(t, types.MultilingualValue{"seh": "nyama"}, got)
}

func TestWriteAllMultiStringReplaces(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.WriteMultiString(f.entry, fComment, "pt", "carne"))
	require.NoError(t, f.m.WriteAllMultiString(f.entry, fComment,
		types.MultilingualValue{"seh": "nyama", "en": "meat", "fr": ""}))

	got, err := f.m.ReadAllMultiString(f.entry, fComment)
	require.NoError(t, err)
	assert.Equal(t, types.MultilingualValue{"seh": "nyama", "en": "meat"}, got)
}

func TestWriteAllMultiStringRejectsDuplicateWritingSystem(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.WriteMultiString(f.entry, fComment, "pt", "carne"))

	for _, v := range []types.MultilingualValue{
		{"en": "meat", "EN": "Meat"},
		{"en": "meat", "EN": ""},
	} {
		err := f.m.WriteAllMultiString(f.entry, fComment, v)
		assert.ErrorIs(t, err, types.ErrDuplicateAlternative)
		err = f.m.Write(f.entry, fComment, v)
		assert.ErrorIs(t, err, types.ErrDuplicateAlternative)
	}

	got, err := f.m.ReadAllMultiString(f.entry, fComment)
	require.NoError(t, err)
	assert.Equal(t, types.MultilingualValue{"pt": "carne"}, got, "a rejected value leaves the field unchanged")
}

func TestBestStringFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  map[int]string
		want string
	}{
		{"vernacular only", map[int]string{hSeh: "nyama"}, "nyama"},
		{"analysis wins", map[int]string{hSeh: "nyama", hEn: "meat"}, "meat"},
		{"first analysis wins", map[int]string{hEn: "meat", hFr: "viande"}, "viande"},
		{"null marker is absent", map[int]string{hFr: types.NullMarker, hEn: "meat"}, "meat"},
		{"only null markers", map[int]string{hFr: types.NullMarker, hSeh: types.NullMarker}, ""},
		{"nothing", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for h, s := range tt.raw {
				f.session.PutRawMulti(1, fComment, h, s)
			}
			got, err := f.m.BestString(f.entry, fComment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBestStringOfTextField(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.WriteString(f.entry, fDialect, "Northern"))
	got, err := f.m.BestString(f.entry, fDialect)
	require.NoError(t, err)
	assert.Equal(t, "Northern", got)

	_, err = f.m.BestString(f.entry, fFrequency)
	assert.ErrorIs(t, err, types.ErrCategoryMismatch)
}
