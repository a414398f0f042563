package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agis/tzcal/internal/contract"
)

func TestSchemaVersionDefault(t *testing.T) {
	p := Printer{}
	assert.Equal(t, contract.SchemaVersion, p.schemaVersion())
}

func TestFlattenWithFields(t *testing.T) {
	e := contract.Event{Subject: "Standup", Start: "2025-06-02T09:00", SeriesID: "s1"}
	assert.Equal(t, "Standup\ts1", flatten(e, []string{"subject", "series_id"}))
	assert.Equal(t, "x\t", flatten(map[string]any{"op": "x"}, []string{"op", "missing"}))
}

func TestSuccessJSONEnvelope(t *testing.T) {
	var out bytes.Buffer
	p := Printer{Mode: ModeJSON, Command: "run", Out: &out}
	require.NoError(t, p.Success([]contract.Calendar{{Name: "Work", Timezone: "UTC"}}, nil, nil))

	var env contract.SuccessEnvelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, contract.SchemaVersion, env.SchemaVersion)
	assert.Equal(t, "run", env.Command)
	assert.NotNil(t, env.Meta)
	assert.NotNil(t, env.Warnings)
}

func TestSuccessJSONLOneLinePerItem(t *testing.T) {
	var out bytes.Buffer
	p := Printer{Mode: ModeJSONL, Out: &out}
	require.NoError(t, p.Success([]string{"a", "b"}, nil, nil))
	assert.Equal(t, "\"a\"\n\"b\"\n", out.String())
}

func TestPlainEmptyAndQuiet(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Printer{Out: &out}.Success([]string{}, nil, nil))
	assert.Equal(t, "no results\n", out.String())

	out.Reset()
	require.NoError(t, Printer{Out: &out, Quiet: true}.Success([]string{}, nil, nil))
	assert.Empty(t, out.String())
}

func TestErrorStructured(t *testing.T) {
	var errOut bytes.Buffer
	p := Printer{Mode: ModeJSON, Err: &errOut}
	require.NoError(t, p.Error(contract.ErrConflict, "duplicate", ""))

	var env contract.ErrorEnvelope
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &env))
	assert.Equal(t, contract.ErrConflict, env.Error.Code)

	errOut.Reset()
	require.NoError(t, Printer{Err: &errOut}.Error(contract.ErrNotFound, "missing", "check the name"))
	assert.Equal(t, "error: missing\nhint: check the name\n", errOut.String())
}
