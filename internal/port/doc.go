// Package port implements host-port availability scanning for the
// safecrate CLI.
//
// `open --publish` maps host ports verbatim, so the only question to
// answer is whether a requested host port is already taken. The Scanner
// asks the OS directly via net.Listen / net.ListenPacket, which needs no
// elevated permissions and no parsing of /proc/net/* or external tools.
package port
