// Package internal holds values shared by the veriai executables
// that are not part of the public API.
package internal

// Version is the current release of the veriai tools.
const Version = "0.2.0"
