package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

func TestScenarioSingleSelect(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.lists.SetSingle(f.entry, fRegister, "Formal"))
	require.NoError(t, f.lists.SetSingle(f.entry, fRegister, "Slang"))
	got, err := f.lists.GetSelected(f.entry, fRegister)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Slang", got[0].Name)

	err = f.lists.SetSingle(f.entry, fRegister, "Archaic")
	assert.ErrorIs(t, err, types.ErrInvalidListItem)
	got, err = f.lists.GetSelected(f.entry, fRegister)
	require.NoError(t, err)
	assert.Equal(t, []string{"reg-slang"}, itemIDs(got))
}

func TestSetSingleItemReferences(t *testing.T) {
	f := newFixture(t)
	informal := types.PossibilityItem{ID: "reg-informal", ListID: "list-register", Name: "Informal"}

	tests := []struct {
		name    string
		ref     any
		wantID  string
		wantErr error
	}{
		{name: "by id", ref: "reg-formal", wantID: "reg-formal"},
		{name: "by name", ref: "Slang", wantID: "reg-slang"},
		{name: "by abbreviation", ref: "inf", wantID: "reg-informal"},
		{name: "item value", ref: informal, wantID: "reg-informal"},
		{name: "item pointer", ref: &informal, wantID: "reg-informal"},
		{name: "names are case-sensitive", ref: "formal", wantErr: types.ErrInvalidListItem},
		{name: "item of another list", ref: types.PossibilityItem{ID: "dom-birds", Name: "Birds"}, wantErr: types.ErrInvalidListItem},
		{name: "unsupported reference", ref: 3, wantErr: types.ErrInvalidListItem},
		{name: "nil", ref: nil, wantErr: types.ErrNullArgument},
		{name: "empty string", ref: "", wantErr: types.ErrNullArgument},
		{name: "nil pointer", ref: (*types.PossibilityItem)(nil), wantErr: types.ErrNullArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.lists.SetSingle(f.entry, fRegister, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := f.lists.GetSelected(f.entry, fRegister)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.wantID}, itemIDs(got))
		})
	}
}

func TestClearSingle(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.lists.ClearSingle(f.entry, fRegister), "clearing an empty field succeeds")
	require.NoError(t, f.lists.SetSingle(f.entry, fRegister, "Formal"))
	require.NoError(t, f.lists.ClearSingle(f.entry, fRegister))

	got, err := f.lists.GetSelected(f.entry, fRegister)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAddTagIsIdempotent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.lists.AddTag(f.sense, fDomains, "Birds"))
	require.NoError(t, f.lists.AddTag(f.sense, fDomains, "Animals"))
	require.NoError(t, f.lists.AddTag(f.sense, fDomains, "Birds"))
	require.NoError(t, f.lists.AddTag(f.sense, fDomains, "dom-birds"))

	got, err := f.lists.GetSelected(f.sense, fDomains)
	require.NoError(t, err)
	assert.Equal(t, []string{"dom-birds", "dom-animals"}, itemIDs(got), "insertion order is kept")

	err = f.lists.AddTag(f.sense, fDomains, "Rocks")
	assert.ErrorIs(t, err, types.ErrInvalidListItem)
}

func TestRemoveTag(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.lists.SetTags(f.sense, fDomains, "Animals", "Birds", "Plants"))

	require.NoError(t, f.lists.RemoveTag(f.sense, fDomains, "Birds"))
	require.NoError(t, f.lists.RemoveTag(f.sense, fDomains, "Birds"), "removing an absent item is a no-op")
	require.NoError(t, f.lists.RemoveTag(f.sense, fDomains, "Rocks"), "removing an unknown item is a no-op")

	got, err := f.lists.GetSelected(f.sense, fDomains)
	require.NoError(t, err)
	assert.Equal(t, []string{"dom-animals", "dom-plants"}, itemIDs(got))

	err = f.lists.RemoveTag(f.sense, fDomains, nil)
	assert.ErrorIs(t, err, types.ErrNullArgument)
}

func TestRemoveDanglingTag(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ReplaceReferences(10, fDomains, []string{"dom-birds", "retired-item"}))

	got, err := f.lists.GetSelected(f.sense, fDomains)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, types.PossibilityItem{ID: "retired-item", ListID: "list-domains"}, got[1])

	require.NoError(t, f.lists.RemoveTag(f.sense, fDomains, "retired-item"))
	got, err = f.lists.GetSelected(f.sense, fDomains)
	require.NoError(t, err)
	assert.Equal(t, []string{"dom-birds"}, itemIDs(got))
}

func TestSetTags(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.lists.AddTag(f.sense, fDomains, "Animals"))

	require.NoError(t, f.lists.SetTags(f.sense, fDomains, "Plants", "Birds", "Plants"))
	got, err := f.lists.GetSelected(f.sense, fDomains)
	require.NoError(t, err)
	assert.Equal(t, []string{"dom-plants", "dom-birds"}, itemIDs(got))

	err = f.lists.SetTags(f.sense, fDomains, "Animals", "Rocks")
	assert.ErrorIs(t, err, types.ErrInvalidListItem)
	got, err = f.lists.GetSelected(f.sense, fDomains)
	require.NoError(t, err)
	assert.Equal(t, []string{"dom-plants", "dom-birds"}, itemIDs(got), "a rejected set must not be stored")

	require.NoError(t, f.lists.ClearTags(f.sense, fDomains))
	got, err = f.lists.GetSelected(f.sense, fDomains)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListOperationsCheckCategory(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		call func() error
	}{
		{"SetSingle on tags", func() error { return f.lists.SetSingle(f.sense, fDomains, "Birds") }},
		{"ClearSingle on tags", func() error { return f.lists.ClearSingle(f.sense, fDomains) }},
		{"AddTag on select", func() error { return f.lists.AddTag(f.entry, fRegister, "Formal") }},
		{"RemoveTag on select", func() error { return f.lists.RemoveTag(f.entry, fRegister, "Formal") }},
		{"SetTags on select", func() error { return f.lists.SetTags(f.entry, fRegister, "Formal") }},
		{"ClearTags on select", func() error { return f.lists.ClearTags(f.entry, fRegister) }},
		{"AddTag on text", func() error { return f.lists.AddTag(f.entry, fDialect, "Formal") }},
		{"GetSelected on text", func() error { _, err := f.lists.GetSelected(f.entry, fDialect); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), types.ErrCategoryMismatch)
		})
	}
}

func TestWriteNilClearsSelect(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Write(f.entry, fRegister, "Formal"))
	require.NoError(t, f.m.Write(f.entry, fRegister, nil))
	got, err := f.lists.GetSelected(f.entry, fRegister)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMissingItemReportedBeforeObjectLookup(t *testing.T) {
	f := newFixture(t)
	missing := types.Object{ID: 404, Class: "Entry"}
	var nilItem *types.PossibilityItem

	tests := []struct {
		name string
		call func() error
	}{
		{"set single nil", func() error { return f.lists.SetSingle(missing, fRegister, nil) }},
		{"set single empty name", func() error { return f.lists.SetSingle(missing, fRegister, "") }},
		{"set single nil pointer", func() error { return f.lists.SetSingle(missing, fRegister, nilItem) }},
		{"add tag nil", func() error { return f.lists.AddTag(missing, fDomains, nil) }},
		{"remove tag empty name", func() error { return f.lists.RemoveTag(missing, fDomains, "") }},
		{"set tags with one nil", func() error { return f.lists.SetTags(missing, fDomains, "Birds", nil) }},
		{"unknown field", func() error { return f.lists.AddTag(missing, 9999, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.ErrorIs(t, err, types.ErrNullArgument)
			assert.NotErrorIs(t, err, types.ErrObjectNotFound)
			assert.NotErrorIs(t, err, types.ErrWrongObjectClass)
		})
	}
}

func TestMissingItemOnReadOnlyProject(t *testing.T) {
	f := newReadOnlyFixture(t)
	err := f.lists.SetSingle(f.entry, fRegister, nil)
	assert.ErrorIs(t, err, types.ErrNullArgument)
}
