package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/testutil"
)

func TestLoadScenario_Demo(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/demo.yaml")
	require.NoError(t, err)

	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, AddSpec{Left: 3, Right: 4}, s.Add)
	require.NotNil(t, s.Expect)
	assert.Equal(t, uint64(7), *s.Expect)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, EditDecrementLeft, s.Steps[0].Edit)
	assert.Len(t, s.Assertions, 5)
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: x\ndescription: y\nstep: []\n",
			want: "field step not found",
		},
		{
			name: "missing name",
			yaml: "description: y\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: x\n",
			want: "description is required",
		},
		{
			name: "negative operand",
			yaml: "name: x\ndescription: y\nadd: {left: -1, right: 0}\n",
			want: "operands must be non-negative",
		},
		{
			name: "unknown edit",
			yaml: "name: x\ndescription: y\nsteps:\n  - edit: double_left\n",
			want: `steps[0]: unknown edit "double_left"`,
		},
		{
			name: "empty edit",
			yaml: "name: x\ndescription: y\nsteps:\n  - expect: 1\n",
			want: "steps[0]: edit is required",
		},
		{
			name: "bad record kind",
			yaml: "name: x\ndescription: y\nmalformed:\n  - {addr: 1, kind: MULTIPLIER}\n",
			want: "malformed[0]",
		},
		{
			name: "bad record arity",
			yaml: "name: x\ndescription: y\nmalformed:\n  - {addr: 1, kind: SUCCESSOR}\n",
			want: "SUCCESSOR takes 1 refs, got 0",
		},
		{
			name: "rule_count without rule",
			yaml: "name: x\ndescription: y\nassertions:\n  - {type: rule_count, count: 1}\n",
			want: "rule is required for rule_count",
		},
		{
			name: "unknown assertion",
			yaml: "name: x\ndescription: y\nassertions:\n  - {type: trace_order}\n",
			want: `unknown assertion type "trace_order"`,
		},
		{
			name: "negative count",
			yaml: "name: x\ndescription: y\nassertions:\n  - {type: live_count, count: -2}\n",
			want: "count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRawRecord_Node(t *testing.T) {
	n, err := RawRecord{Addr: 5, Kind: "adder", Refs: []uint64{10, 1}}.Node()
	require.NoError(t, err)
	assert.Equal(t, ir.At(testutil.ID(5), ir.AdderKind(testutil.ID(10), testutil.ID(1))), n)
}

func TestLoadScenario_AllTestdata(t *testing.T) {
	entries, err := os.ReadDir("testdata/scenarios")
	require.NoError(t, err)
	for _, e := range entries {
		_, err := LoadScenario(filepath.Join("testdata/scenarios", e.Name()))
		assert.NoError(t, err, e.Name())
	}
}
