package modeltool

import (
	"reflect"

	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/schema"
)

// FunctionTool builds a function tool definition for the model, with
// the parameters schema reflected from the given Go type.
func FunctionTool(name, description string, paramsType reflect.Type) (llms.Tool, error) {
	sc, err := schema.New(paramsType)
	if err != nil {
		return llms.Tool{}, err
	}
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  sc.Parameters,
		},
	}, nil
}
