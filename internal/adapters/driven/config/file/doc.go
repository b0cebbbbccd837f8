// Package file provides a TOML file-based implementation of the config
// driven port, plus the typed Settings view the CLI wiring consumes.
//
// Configuration lives at ~/.librarian/config.toml by default. Nested TOML
// tables are flattened into dot-notation keys (e.g. [qdrant] url becomes
// "qdrant.url").
package file
