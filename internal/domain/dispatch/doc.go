// Package dispatch maps D-Bus subtree nodes to lazily created providers.
//
// Components:
//   - Registry: canonical segment to provider cache with at-most-once construction
//   - Dispatcher: decodes a segment, builds the provider on a miss, returns its skeleton
//   - Router: selects the dispatcher for the interface a call targets
//
// A Dispatcher owns its Registry. Entries are never evicted and failed
// constructions are never cached, so a later request for the same segment
// retries the factory.
//
// Concurrent requests for one segment share a single construction; requests
// for different segments proceed independently.
//
// Example Usage:
//
//	search := dispatch.NewDispatcher(provider.Family{
//		Name:       "search",
//		Interfaces: []string{"org.gnome.Shell.SearchProvider2"},
//		Factory:    factory,
//	}).WithLogger(logger).WithMetrics(metrics)
//	router := dispatch.NewRouter(search)
//	skeleton, err := router.Dispatch(ctx, "com_2eendlessm_2eanimals", "org.gnome.Shell.SearchProvider2")
package dispatch
