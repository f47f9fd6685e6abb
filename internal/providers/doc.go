// Package providers holds the provider families served under the search
// provider's object path.
//
// Available Families:
//   - search: org.gnome.Shell.SearchProvider2 (and the older
//     org.gnome.Shell.SearchProvider) over an app's articles
//   - metadata: com.endlessm.ContentMetadata queries and shard listing
//
// Each family package exports a Factory, which opens an app's content and
// builds a provider on first dispatch, and the bus method tables for its
// interfaces.
//
// Example Usage:
//
//	store := content.NewStore(cfg.Content.Dir)
//	f := search.NewFactory(store, launcher, search.DefaultOptions())
//	d := dispatch.NewDispatcher(f.Family())
package providers
