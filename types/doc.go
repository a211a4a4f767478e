// Package types contains the public types and interfaces shared across solwatch.
//
// The root solwatch package re-exports everything here via type aliases, so user
// code can refer to solwatch.Status, solwatch.Logger, etc. Internal packages
// import this package directly, which keeps them independent of the root package
// and avoids import cycles.
package types
