/*
Package gateway is the HTTP client for the external catalog origin.

# Endpoints

Four read-only calls, one attempt each:

	FetchProducts(ctx, limit, skip)  GET /products?limit=&skip=
	FetchUsers(ctx, limit, skip)     GET /users?limit=&skip=
	FetchTodos(ctx, limit, skip)     GET /todos?limit=&skip=
	Probe(ctx)                       GET /test

There is no retry, caching or backoff. The request timeout is fixed when the
client is built (10s by default, see config.DefaultTimeout).

# Errors

Network errors, timeouts, non-2xx statuses and undecodable bodies are all
reported as *TransportError, which matches ErrTransport:

	page, err := client.FetchProducts(ctx, 5, 0)
	if errors.Is(err, gateway.ErrTransport) {
		logger.Warn("products fetch failed", "error", err)
	}

Error bodies are never parsed.

# Observability

Each call gets an X-Request-ID, is traced through otelhttp, logged at debug
level and handed to the optional Recorder (the SQLite call log).
*/
package gateway
