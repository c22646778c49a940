// Package modules contains the self-contained application features.
//
// Each subdirectory is a module implementing `module.Module`. Modules are
// listed in `internal/app/modules.go`; the server registers all of them and
// then boots each on the root route group.
package modules
