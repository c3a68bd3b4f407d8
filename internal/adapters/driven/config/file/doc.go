// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//
// The package also maps configuration keys onto the indexing and
// scoring settings used by the core services.
package file
