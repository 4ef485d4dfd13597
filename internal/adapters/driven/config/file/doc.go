// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML-based configuration (lcod-registry.toml)
//   - Locator: resolution of the collaborating repositories
package file
