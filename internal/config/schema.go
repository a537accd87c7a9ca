package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// ProviderOverridesSchemaFile is the file name WriteProviderOverridesSchema uses.
const ProviderOverridesSchemaFile = "provider-overrides.schema.json"

// ProviderOverridesSchema describes the yaml document read by
// LoadProviderOverrides.
func ProviderOverridesSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		FieldNameTag:               "yaml",
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}

	schema := reflector.Reflect(&providerOverridesDocument{})
	schema.Title = "AI Gateway Provider Overrides"
	schema.Description = "Per-provider base URLs, models, concurrency and capability switches. Credentials stay in the environment."
	return schema
}

// WriteProviderOverridesSchema writes the schema into outputDir and returns
// the written path.
func WriteProviderOverridesSchema(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data, err := ProviderOverridesSchema().MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}

	path := filepath.Join(outputDir, ProviderOverridesSchemaFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write schema: %w", err)
	}
	return path, nil
}
