package jsonschema_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/kwait/pkg/jsonschema"
)

func TestReflector(t *testing.T) {
	t.Parallel()

	type Person struct {
		Name string `json:"name"`
		Age  int    `json:"age,omitempty" jsonschema:"minimum=0"`
	}

	b, err := jsonschema.NewReflector().Marshal(reflect.TypeFor[Person]())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []any{"name"}, doc["required"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "age")
}

func TestScenarioSchema(t *testing.T) {
	t.Parallel()

	b, err := jsonschema.ScenarioSchema()
	require.NoError(t, err)

	var doc struct {
		Properties map[string]struct {
			Type    string  `json:"type"`
			Minimum float64 `json:"minimum"`
			Items   struct {
				Properties map[string]any `json:"properties"`
			} `json:"items"`
		} `json:"properties"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "kwait scenario", doc.Title)
	assert.Equal(t, "integer", doc.Properties["tickHz"].Type)
	assert.InDelta(t, 1, doc.Properties["cpus"].Minimum, 0)
	assert.Equal(t, "array", doc.Properties["processes"].Type)
	assert.Contains(t, doc.Properties["processes"].Items.Properties, "killAfterTicks")
}
