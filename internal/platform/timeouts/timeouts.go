// Package timeouts defines shared timeout constants used by the web service.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the backend.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single backend request.
const GRPCRequest = 2 * time.Second

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// ModuleFetch caps a single lazy view bundle resolution.
const ModuleFetch = 10 * time.Second
