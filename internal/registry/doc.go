// Package registry queries a Unity package registry (an npm-style HTTP
// endpoint) for the released versions of a package and picks the version a
// dependency should use for a given Unity release.
package registry
