// Package server provides HTTP routing and middleware for the qbx web front-end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so "GET /" and "POST /" can
// be registered side by side and other methods receive 405 from the mux.
//
// # Middleware
//
//   - [RequestID] : assigns or propagates X-Request-ID and stores it in the request context
//   - [AccessLog] : logs method, path, status, bytes and duration per request
//   - [Recover] : turns a handler panic into a logged 500
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
