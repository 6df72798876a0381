// Package scaffold creates new Unity packages: the package.json manifest,
// runtime and editor assembly definitions, a companion tests package, and
// the Documentation~ folder consumed by the documentation builder. Page
// content comes from embedded text/template files.
package scaffold
