// Package schemas embeds the JSON Schema documents shipped with the binary.
package schemas

import _ "embed"

// Guide is the advisory schema for style guide documents
//
//go:embed guide.schema.json
var Guide string

// Variants is the schema of the reply envelope requested from the text-generation service
//
//go:embed variants.schema.json
var Variants string
