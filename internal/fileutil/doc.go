// Package fileutil is the file and directory collaborator used by the
// scaffolding and documentation commands: filtered recursive copies that
// honor Unity's ignore rules, JSON and text persistence, and directory
// lifecycle helpers. Every operation is logged at debug level.
package fileutil
