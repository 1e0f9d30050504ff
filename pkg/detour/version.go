// Package detour holds module-level metadata shared by the CLI and build
// tooling.
package detour

// Version is the detour module version.
const Version = "0.3.0"
