// Package content loads knowledge app content from disk and answers queries
// against it.
//
// Each app owns a directory holding a manifest (content.yaml, content.yml,
// content.json or content.toml) and optional shard files under shards/.
// A Domain is the loaded, immutable view of one app; Query filters its
// models by search terms and tags with paging and an upper bound.
//
// Errors wrap the provider sentinels so callers can map them to bus errors:
//   - missing directory: provider.ErrAppNotFound
//   - unreadable or unparsable manifest: provider.ErrMalformedApp
//   - manifest version newer than MaxVersion: provider.ErrUnsupportedVersion
package content
