package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"

	invopopjsonschema "github.com/invopop/jsonschema"

	"github.com/MacroPower/kwait/pkg/sim"
)

type Reflector struct {
	Reflector *invopopjsonschema.Reflector
}

func NewReflector() *Reflector {
	return &Reflector{
		Reflector: &invopopjsonschema.Reflector{
			DoNotReference: true,
			ExpandedStruct: true,
		},
	}
}

func (r *Reflector) Reflect(t reflect.Type) *invopopjsonschema.Schema {
	return r.Reflector.ReflectFromType(t)
}

// Marshal reflects t and returns the indented JSON Schema document.
func (r *Reflector) Marshal(t reflect.Type) ([]byte, error) {
	return marshal(r.Reflect(t))
}

func marshal(s *invopopjsonschema.Schema) ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json schema: %w", err)
	}

	return b, nil
}

// ScenarioSchema returns the JSON Schema of the simulator scenario file.
func ScenarioSchema() ([]byte, error) {
	s := NewReflector().Reflect(reflect.TypeFor[sim.Scenario]())
	s.Title = "kwait scenario"

	return marshal(s)
}
