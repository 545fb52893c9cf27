package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// The v1.1 structural contract is a declarative artifact, not code: the
// validator treats whichever schema it is handed as an opaque oracle and
// reports every violation as E_SCHEMA.

//go:embed contracts/mu_v1_1.schema.json
var defaultContractJSON []byte

const contractURL = "mu_v1_1.schema.json"

// CompileContract turns a JSON Schema document into the contract oracle.
func CompileContract(raw []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("contract is not valid JSON: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(contractURL, doc); err != nil {
		return nil, fmt.Errorf("failed to register contract: %w", err)
	}
	schema, err := compiler.Compile(contractURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile contract: %w", err)
	}
	return schema, nil
}

// DefaultContract compiles the embedded v1.1 contract.
func DefaultContract() (*jsonschema.Schema, error) {
	return CompileContract(defaultContractJSON)
}

// LoadContract compiles a contract from a file path.
func LoadContract(path string) (*jsonschema.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract %s: %w", path, err)
	}
	return CompileContract(raw)
}

// checkContract runs the oracle over the document. YAML scalars are
// round-tripped through JSON so the schema library sees the value space it
// expects. A non-nil return is the flattened violation message.
func checkContract(schema *jsonschema.Schema, doc map[string]any) (string, bool) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Sprintf("document not representable as JSON: %v", err), false
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Sprintf("document not representable as JSON: %v", err), false
	}
	if err := schema.Validate(inst); err != nil {
		return strings.Join(strings.Fields(err.Error()), " "), false
	}
	return "", true
}
