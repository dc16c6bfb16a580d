// Package gateway defines the interface shared by the HTTP-facing
// components that expose the dataset.
package gateway

import "net/http"

// HTTPHandler is the interface for components that register HTTP routes
// with the central server's mux. The graphql gateway owns the server; the
// fixed-route REST gateway registers through this interface.
type HTTPHandler interface {
	// RegisterHTTPHandlers registers the component's routes.
	//
	// The prefix parameter is the URL path prefix for the component's
	// routes, "/" for top-level registration.
	RegisterHTTPHandlers(prefix string, mux *http.ServeMux)
}
