// Package discovery implements the discovery feed interfaces of a knowledge
// app.
//
// One Provider serves all six com.endlessm.DiscoveryFeed* interfaces. Each
// interface has a single method that returns the app's shards with a set of
// cards, string dictionaries with title, synopsis, last_modified_date,
// thumbnail_uri and ekn_id.
//
// The quote and word feeds return one card, picked by the day of the year
// among the matching models. Article cards take a random blurb as their
// title when the model has blurbs.
package discovery
