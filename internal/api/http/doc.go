// Package http implements the ETSI GS MEC 016 device application API of the
// LCMP on top of Gin.
//
// Endpoints, relative to /dev_app/v1:
//
//	GET    /app_list                     query the application catalog
//	POST   /app_contexts                 create an application context
//	GET    /app_contexts                 list the active context IDs
//	GET    /app_contexts/:contextId      read a context
//	PUT    /app_contexts/:contextId      update the callbackReference
//	DELETE /app_contexts/:contextId      delete a context
//
// Failures are answered with a ProblemDetails body.
package http
