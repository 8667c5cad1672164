// Package version holds the version of the TunaMUD programs. It is split from
// the main program so both binaries and the server's info endpoint can use it.
package version

// Current is the version of the command interpreter and console client.
const Current = "0.4.0"

// ServerCurrent is the version of the TunaMUD server.
const ServerCurrent = "0.4.0"
