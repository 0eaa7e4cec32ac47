// Package image bundles the default Dockerfile template for the safecrate
// base image and materializes it to a temporary file for `docker build`.
//
// The template is a static embedded asset — no parsing or templating is
// applied to it. Users who want a different environment pass their own
// Dockerfile to `safecrate init --dockerfile` instead.
package image
