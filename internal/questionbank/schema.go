package questionbank

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed bank.schema.json
	bankSchemaJSON string

	//go:embed scoring.schema.json
	scoringSchemaJSON string
)

var (
	bankSchema    = mustSchema(bankSchemaJSON)
	scoringSchema = mustSchema(scoringSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("questionbank: invalid embedded schema: " + err.Error())
	}
	return s
}

// validateDoc checks a decoded YAML document against schema.
func validateDoc(schema *gojsonschema.Schema, doc any) error {
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
