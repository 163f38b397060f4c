package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_Demo(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/demo.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestGolden_Malformed(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/malformed.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, s.Name, result))
}

func TestMarshalSnapshot_Canonical(t *testing.T) {
	r := NewResult()
	r.Revisions = []RevisionSummary{{Revision: 0, Edit: EditConstruct, Value: 1, Live: 2, Added: 2}}

	data, err := MarshalSnapshot("tiny", r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"revisions":[{"added":2,"anomalies":0,"edit":"construct","live":2,"passes":0,"removed":0,"revision":0,"value":1}],"scenario_name":"tiny"}`,
		string(data))
}
