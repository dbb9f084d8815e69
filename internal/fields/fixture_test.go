package fields

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/mesh-intelligence/lexfields/internal/memstore"
	"github.com/mesh-intelligence/lexfields/internal/project"
	"github.com/mesh-intelligence/lexfields/internal/schema"
	"github.com/mesh-intelligence/lexfields/internal/wsys"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// Handles follow first appearance: seh=1 pt=2 fr=3 en=4 es=5.
const fixtureProject = `
name: fields test
writing_systems:
  vernacular: [seh, pt]
  analysis: [fr, en, es]
classes:
  - name: CmObject
  - name: Entry
    base: CmObject
  - name: Sense
    base: CmObject
lists:
  - id: list-register
    name: Register
    items:
      - {id: reg-formal, name: Formal, abbreviation: fml}
      - {id: reg-informal, name: Informal, abbreviation: inf}
      - {id: reg-slang, name: Slang}
  - id: list-domains
    name: Domains
    items:
      - {id: dom-animals, name: Animals}
      - {id: dom-birds, name: Birds}
      - {id: dom-plants, name: Plants}
fields:
  - {id: 1001, class: Entry, name: Dialect, category: text}
  - {id: 1002, class: Entry, name: Note, category: multitext, role: analysis}
  - {id: 1003, class: Entry, name: Alternate Form, category: multitext, role: vernacular}
  - {id: 1004, class: Entry, name: Comment, category: multitext}
  - {id: 1005, class: Entry, name: Frequency, category: integer}
  - {id: 1006, class: Entry, name: Recorded, category: date}
  - {id: 1007, class: Entry, name: Register, category: select, list: Register}
  - {id: 1008, class: Sense, name: Domains, category: tags, list: Domains}
  - {id: 1009, class: CmObject, name: Import Residue, category: text, custom: false}
objects:
  - {id: 1, class: Entry}
  - {id: 2, class: Entry}
  - {id: 10, class: Sense}
`

const (
	fDialect   = 1001
	fNote      = 1002
	fAltForm   = 1003
	fComment   = 1004
	fFrequency = 1005
	fRecorded  = 1006
	fRegister  = 1007
	fDomains   = 1008
	fResidue   = 1009

	hSeh = 1
	hFr  = 3
	hEn  = 4
)

type fixture struct {
	session *memstore.Session
	m       *Marshaller
	lists   *ListEditor
	entry   types.Object
	entry2  types.Object
	sense   types.Object
}

// readOnlySession reports a read-only project while leaving the underlying
// store writable, so tests can observe that nothing reached it.
type readOnlySession struct {
	*memstore.Session
}

func (readOnlySession) OpenForWrite() bool { return false }

func newFixture(t *testing.T) *fixture {
	return buildFixture(t, false)
}

func newReadOnlyFixture(t *testing.T) *fixture {
	return buildFixture(t, true)
}

func buildFixture(t *testing.T, readOnly bool) *fixture {
	t.Helper()
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	p, err := project.Parse([]byte(fixtureProject))
	require.NoError(t, err)
	mem, err := memstore.New(p, false)
	require.NoError(t, err)

	var session types.Session = mem
	if readOnly {
		session = readOnlySession{mem}
	}
	catalog, err := schema.Load(session)
	require.NoError(t, err)
	resolver, err := wsys.FromSession(session)
	require.NoError(t, err)
	m, err := NewMarshaller(session, catalog, resolver)
	require.NoError(t, err)

	f := &fixture{session: mem, m: m, lists: m.Lists()}
	f.entry, err = m.Object(1)
	require.NoError(t, err)
	f.entry2, err = m.Object(2)
	require.NoError(t, err)
	f.sense, err = m.Object(10)
	require.NoError(t, err)
	return f
}

func itemIDs(items []types.PossibilityItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
