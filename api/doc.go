// Package api provides the HTTP viewer for harvested articles.
// It uses chi for routing and serves a server-rendered HTML sample
// of stored articles for quick inspection of harvest quality.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: router configuration and setup
// - handlers/: HTTP request handlers
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Usage Example
//
//	router := api.NewRouter(api.Config{
//	    Logger:     logger,
//	    Store:      store,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	})
//	http.ListenAndServe(":8000", router)
package api
