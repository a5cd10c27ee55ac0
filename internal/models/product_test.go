package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponents_MergeKeepsUntouched(t *testing.T) {
	base := Components{
		"a": {Type: "temperature", Unit: "C", Range: Range{Min: -40, Max: 85}},
	}
	merged := base.Merge(Components{
		"b": {Type: "humidity", Unit: "%", Range: Range{Min: 0, Max: 100}},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "temperature", merged["a"].Type)
	assert.Equal(t, "humidity", merged["b"].Type)
	// исходная карта не меняется
	assert.Len(t, base, 1)
}

func TestComponents_MergeOverwrites(t *testing.T) {
	base := Components{"a": {Type: "temperature", Unit: "C"}}
	merged := base.Merge(Components{"a": {Type: "temperature", Unit: "F"}})
	assert.Equal(t, "F", merged["a"].Unit)
}

func TestComponents_NormalizeNil(t *testing.T) {
	var c Components
	n := c.Normalize()
	require.NotNil(t, n)
	assert.Empty(t, n)

	out, err := json.Marshal(Components{"a": {}}.Normalize())
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"type":"","unit":"","range":{"min":0,"max":0},"state":[]}}`, string(out))
}

func TestComponent_StateRoundTrip(t *testing.T) {
	in := `{"type":"switch","unit":"","range":{"min":0,"max":1},"state":[true,1.5,"on",{"k":[1,2]},null]}`
	var c Component
	require.NoError(t, json.Unmarshal([]byte(in), &c))
	require.Len(t, c.State, 5)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestProduct_ComponentsJSON(t *testing.T) {
	var p Product
	p.ProductID = "p-1"
	p.Name = "thermo"
	assert.NotNil(t, p.ComponentMap())

	p.SetComponents(Components{"t": {Type: "temperature"}})
	out, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "p-1", decoded["productID"])
	assert.Contains(t, decoded["components"], "t")
	assert.NotContains(t, decoded, "ID")
}

func TestActiveFor(t *testing.T) {
	assert.True(t, ActiveFor("start"))
	assert.False(t, ActiveFor("stop"))
	assert.False(t, ActiveFor("Start"))
	assert.False(t, ActiveFor(""))
	assert.False(t, ActiveFor("reboot"))
}
