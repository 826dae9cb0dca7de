/*
Package tracing provides request tracing for the LCMP HTTP API.

Every request gets a trace ID, taken from the X-Trace-ID header when the
caller sends one, and a span that is logged once the response is written.
Handlers retrieve the trace ID with GetTraceID to correlate their own log
lines.

# Usage

	tracer := tracing.New("lcmp", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

Spans are buffered (1000) and logged asynchronously; Close drains the
buffer.
*/
package tracing
