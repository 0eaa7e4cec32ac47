// Package sandbox implements the deterministic glue between a project
// directory and its container: name derivation and `docker run` argument
// construction.
//
// Container names are a pure function of the canonicalized directory path:
//
//	/home/u/proj → proj_isolated
//
// Two invocations against the same directory (after symlink/`.`/`..`
// resolution) always address the same container, which is what makes
// `open --keep-container`, `resume` and `remove` compose without any
// state file. No collision handling is performed: two directories that
// share a basename share a container name.
//
// Everything in this package is side-effect free apart from path
// canonicalization, so the argument lists handed to the container engine
// are directly testable.
package sandbox
