// Package openapi embeds the OpenAPI description of the recipe API.
package openapi

import _ "embed"

// YAML is the OpenAPI 3 document served at /openapi.yaml.
//
//go:embed openapi.yaml
var YAML []byte
