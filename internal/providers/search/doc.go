// Package search implements the desktop shell search provider for a
// knowledge app.
//
// One Provider exists per app id. It answers org.gnome.Shell.SearchProvider2
// (and the older SearchProvider, which shares its methods) from the app's
// content and hands activation back to the app over its KnowledgeSearch
// interface.
//
// Behaviour:
//   - Empty search terms give an empty result set without querying
//   - A new search cancels the one still running on the same provider
//   - Only articles are returned, at most ResultsLimit of them
//   - Result metas are served for ids returned by the latest search
//   - Descriptions are cut to MaxDescription characters
package search
