// Package docker provides Docker Engine access for the safecrate CLI.
//
// Two access paths are used, each where it fits best:
//
//   - The Docker SDK (github.com/docker/docker/client) for queries and
//     non-interactive operations: socket autodetection, daemon ping,
//     container listing with name/label filters, and removal.
//   - The docker binary via os/exec for the streaming and interactive
//     operations (build, run, start -ai), inheriting the caller's
//     stdin/stdout/stderr so editor sessions and build progress work
//     exactly as they would in a plain terminal.
//
// Container labels (safecrate.* keys) are the sole persistence mechanism:
// a kept container carries its full session metadata, and list/resume
// reconstruct sessions from inspection alone.
package docker
