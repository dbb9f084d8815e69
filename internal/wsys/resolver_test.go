package wsys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

var (
	wsSeh = types.WritingSystem{Handle: 1, Tag: "seh"}
	wsEn  = types.WritingSystem{Handle: 2, Tag: "en"}
	wsFr  = types.WritingSystem{Handle: 3, Tag: "fr"}
	wsEs  = types.WritingSystem{Handle: 4, Tag: "es"}
	wsPt  = types.WritingSystem{Handle: 5, Tag: "pt-BR"}
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(
		[]types.WritingSystem{wsSeh, wsPt},
		[]types.WritingSystem{wsFr, wsEn, wsEs},
	)
	require.NoError(t, err)
	return r
}

func TestNewResolver(t *testing.T) {
	_, err := NewResolver(nil, []types.WritingSystem{wsEn})
	assert.ErrorIs(t, err, types.ErrNoWritingSystems)

	_, err = NewResolver([]types.WritingSystem{wsSeh}, nil)
	assert.ErrorIs(t, err, types.ErrNoWritingSystems)

	_, err = NewResolver([]types.WritingSystem{wsSeh}, []types.WritingSystem{{Handle: 9}})
	assert.ErrorIs(t, err, types.ErrNullArgument)

	_, err = NewResolver([]types.WritingSystem{wsSeh}, []types.WritingSystem{{Handle: 9, Tag: "seh"}})
	assert.ErrorIs(t, err, types.ErrInvalidProject)

	// The same writing system may appear in both lists.
	r, err := NewResolver([]types.WritingSystem{wsEn}, []types.WritingSystem{wsEn, wsFr})
	require.NoError(t, err)
	assert.Len(t, r.All(), 2)
}

func TestResolve(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name    string
		ref     any
		want    types.WritingSystem
		wantErr error
	}{
		{"tag", "fr", wsFr, nil},
		{"tag differs in case", "EN", wsEn, nil},
		{"region tag canonicalized", "PT-br", wsPt, nil},
		{"handle", 4, wsEs, nil},
		{"resolved value unchanged", wsSeh, wsSeh, nil},
		{"pointer", &wsEn, wsEn, nil},
		{"handle-only value", types.WritingSystem{Handle: 3}, wsFr, nil},
		{"unknown tag", "de", types.WritingSystem{}, types.ErrUnknownWritingSystem},
		{"unknown handle", 99, types.WritingSystem{}, types.ErrUnknownWritingSystem},
		{"unsupported type", 3.5, types.WritingSystem{}, types.ErrUnknownWritingSystem},
		{"nil", nil, types.WritingSystem{}, types.ErrNullArgument},
		{"empty tag", "", types.WritingSystem{}, types.ErrNullArgument},
		{"zero value", types.WritingSystem{}, types.WritingSystem{}, types.ErrNullArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaults(t *testing.T) {
	r := newTestResolver(t)
	assert.Equal(t, wsSeh, r.DefaultVernacular())
	assert.Equal(t, wsFr, r.DefaultAnalysis())

	ws, ok := r.Default(types.RoleAnalysis)
	assert.True(t, ok)
	assert.Equal(t, wsFr, ws)
	ws, ok = r.Default(types.RoleVernacular)
	assert.True(t, ok)
	assert.Equal(t, wsSeh, ws)
	_, ok = r.Default(types.RoleUnspecified)
	assert.False(t, ok)

	// Returned lists are copies.
	list := r.Analysis()
	list[0] = wsEs
	assert.Equal(t, wsFr, r.DefaultAnalysis())
}

func TestBestString(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name  string
		value types.MultilingualValue
		want  string
	}{
		{"vernacular only", types.MultilingualValue{"seh": "mbalame"}, "mbalame"},
		{"analysis wins over vernacular", types.MultilingualValue{"seh": "mbalame", "en": "bird"}, "bird"},
		{"analysis priority order", types.MultilingualValue{"en": "migrated bird", "fr": "oiseau migrateur"}, "oiseau migrateur"},
		{"later analysis when earlier empty", types.MultilingualValue{"fr": "", "es": "pájaro"}, "pájaro"},
		{"null marker skipped", types.MultilingualValue{"fr": types.NullMarker, "en": "bird"}, "bird"},
		{"null marker only", types.MultilingualValue{"fr": types.NullMarker}, ""},
		{"second vernacular", types.MultilingualValue{"pt-BR": "pássaro"}, "pássaro"},
		{"unregistered tag ignored", types.MultilingualValue{"de": "Vogel"}, ""},
		{"upper-case tag", types.MultilingualValue{"EN": "bird"}, "bird"},
		{"region case folded", types.MultilingualValue{"pt-br": "pássaro"}, "pássaro"},
		{"cased tag keeps priority order", types.MultilingualValue{"EN": "bird", "fr": "oiseau"}, "oiseau"},
		{"cased tag behind empty exact tag", types.MultilingualValue{"fr": "", "FR": "oiseau"}, "oiseau"},
		{"empty", types.MultilingualValue{}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.BestString(tt.value))
		})
	}
}

func TestBestVernacularString(t *testing.T) {
	r := newTestResolver(t)
	v := types.MultilingualValue{"seh": "mbalame", "en": "bird"}
	assert.Equal(t, "mbalame", r.BestVernacularString(v))
	assert.Equal(t, "bird", r.BestVernacularString(types.MultilingualValue{"en": "bird"}))
	assert.Equal(t, "", r.BestVernacularString(nil))
	assert.Equal(t, "mbalame", r.BestVernacularString(types.MultilingualValue{"SEH": "mbalame", "en": "bird"}))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(types.NullMarker))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "text", Normalize("text"))
	assert.Equal(t, "***x", Normalize("***x"))
}

type fakeSession struct {
	types.Session
	vern, anal []types.WritingSystem
}

func (f fakeSession) WritingSystems() ([]types.WritingSystem, []types.WritingSystem, error) {
	return f.vern, f.anal, nil
}

func TestFromSession(t *testing.T) {
	r, err := FromSession(fakeSession{vern: []types.WritingSystem{wsSeh}, anal: []types.WritingSystem{wsEn}})
	require.NoError(t, err)
	assert.Equal(t, wsEn, r.DefaultAnalysis())

	_, err = FromSession(nil)
	assert.ErrorIs(t, err, types.ErrNullArgument)
}
