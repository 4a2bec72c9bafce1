// Package app provides application initialization and lifecycle management
// for the FMV tracker. It loads configuration, sets up structured logging,
// wires the dataset pipeline into the HTTP API and runs the server with
// graceful shutdown.
package app
