/*
Package monitoring provides Prometheus metrics for the search provider.

# Overview

Metrics cover the subtree dispatch path (cache hits, provider construction,
construction failures), the bus lifecycle (active bindings, registrations)
and the diagnostics HTTP server.

All recording methods accept a nil *Metrics so components can run without a
collector.

# Usage

	metrics := monitoring.NewMetrics()

	timer := monitoring.NewTimer(metrics, "search")
	// ... construct provider ...
	timer.Created()
	metrics.SetProvidersActive("search", registry.Len())

	metrics.RecordDispatch("search", monitoring.ResultHit)

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
