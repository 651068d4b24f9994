// Package server runs the Lyrebird HTTP API on Gin behind an h2c handler,
// so HTTP/1.1 and cleartext HTTP/2 clients share one port.
//
// # Middleware
//
// The standard stack (server/middleware), applied by ApplyMiddleware:
//
//   - Recovery: panic recovery answering with the error envelope
//   - RequestID: X-Request-Id generation and propagation into the log context
//   - CORS: gin-contrib/cors configured from server.cors
//   - BodySizeLimit: caps request bodies at server.max_body_size
//   - RequestLogger: one line per request, level chosen by status
//
// Auth is applied per route group by the API layer.
//
// # Endpoints
//
// server/endpoint provides /health (component health aggregation) and
// /version (build information).
package server
