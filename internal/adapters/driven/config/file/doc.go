// Package file provides a TOML-backed configuration store kept under
// the user's diligence config directory. Nested tables are flattened
// into dot-notation keys so callers can read collaborator settings
// like "parser.api_key" without walking maps.
package file
