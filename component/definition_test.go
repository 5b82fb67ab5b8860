package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinitionSchemaExport(t *testing.T) {
	def, _, err := Compile(train)
	assert.NoError(t, err)

	in := def.InputSchema()
	assert.Equal(t, "object", in.Type)
	assert.Equal(t, []string{"data", "steps"}, in.Required)

	data, ok := in.Properties.Get("data")
	assert.True(t, ok)
	assert.Equal(t, "object", data.Type)
	uri, ok := data.Properties.Get("uri")
	assert.True(t, ok)
	assert.Equal(t, "string", uri.Type)

	steps, ok := in.Properties.Get("steps")
	assert.True(t, ok)
	assert.Equal(t, "integer", steps.Type)

	out := def.OutputSchema()
	assert.Equal(t, []string{"model_uri", "loss", "accuracy"}, out.Required)
	loss, ok := out.Properties.Get("loss")
	assert.True(t, ok)
	assert.Equal(t, "number", loss.Type)
}

func TestDefinitionChannelLookup(t *testing.T) {
	def, _, err := Compile(train)
	assert.NoError(t, err)

	ch, ok := def.Input("data")
	assert.True(t, ok)
	assert.Equal(t, "data", ch.Name)

	_, ok = def.Input("nope")
	assert.False(t, ok)

	ch, ok = def.Output("loss")
	assert.True(t, ok)
	assert.Equal(t, "loss", ch.Name)
}
