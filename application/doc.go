/*
Package application is a library for building the veriAI coordinator
server and its clients.

application implements the components shared by every veriAI
executable: configuration loading, logging, JSON encoding of
HTTP messages, and the server base that the coordinator API runs on.

Config

AppConfig and ConfigLoader abstract the encoding of configuration
files. TOML is the default encoding; YAML is also supported.

Encoding

This module implements the JSON encoding and decoding of messages
exchanged over HTTP, including the {"detail": ...} error body.

Logger

This module implements a generic logging system that can be used by any
veriAI application/executable.

ServerBase

This module provides an API for serving an http.Handler on TCP (with
optional TLS) and Unix socket addresses, running background tasks,
and hot-reloading the configuration on SIGUSR2.
*/
package application
