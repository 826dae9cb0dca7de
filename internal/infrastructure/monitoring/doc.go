/*
Package monitoring provides metrics collection for the LCMP.

# Overview

Prometheus metrics are registered on a registry owned by each Metrics value,
tracking HTTP requests, context store operations and application list
queries.

# Usage

	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Wire the context store
	store.WithMetrics(metrics)

	// Expose the registry
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
