// Command searchprovider runs the knowledge search provider service.
//
// Configuration is read from the environment (BUS_*, CONTENT_*, LOG_*,
// METRICS_*); flags given to serve override it.
//
//	searchprovider serve --bus system --content-dir /var/lib/eknservices/content
//	searchprovider label encode com.example.Encyclopedia
//	searchprovider label decode com_2eexample_2eEncyclopedia
package main
