// Package docs builds the HTML documentation of a Unity package with DocFx.
// It copies the package sources into a scratch folder, partitions them into
// assemblies by their *.asmdef descriptors, synthesizes one compiler project
// per assembly, generates the navigation files of the authored manual, and
// runs DocFx over the result.
package docs
