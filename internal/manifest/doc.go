// Package manifest reads and writes the metadata files of a Unity package:
// the package.json manifest (with an order-preserving dependency list),
// assembly definition descriptors (*.asmdef), and the documentation
// configuration. Manifests are validated against an embedded JSON Schema.
package manifest
