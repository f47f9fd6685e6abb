// Package metadata implements com.endlessm.ContentMetadata for a knowledge
// app: structured queries over the app's models and the list of its shards.
//
// A query is a dictionary with any of the keys search-terms, tags-match-any,
// tags-match-all, limit, offset, sort and order. Unknown keys or values of
// the wrong type fail with InvalidRequest. Exactly one query is accepted
// per call.
package metadata
