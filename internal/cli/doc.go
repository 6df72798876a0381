// Package cli defines the Cobra command tree for the upt CLI. Each file
// registers one top-level command (new, dependencies, documentation, config,
// version) with the root command. Commands delegate to the internal packages
// and only handle flag parsing, validation and output.
package cli
