/*
Package appcore is a small application runtime: one handle that gives an
application an event bus, a key/value store, a config store and an HTTP
client.

# Quick Start

Create an Accessor once at startup and pass it to whoever needs it:

	acc := appcore.NewAccessor(appcore.WithLogger(logger))
	core := acc.Get()

	sub, _ := core.On("save", func(data any) {
	    fmt.Println("saved", data)
	})
	defer sub.Unsubscribe()

	core.Emit(ctx, "save", "doc-1")

	core.StorageSet("user", "ada")
	user, ok := core.StorageGet("user")

Code that wants a process-wide instance can use GetInstance and Destroy
instead of an explicit Accessor.

# Lifecycle

Get returns the same *Core until Destroy. Destroy empties the event
registry and the key/value store and detaches the Core: calls on a
destroyed Core return an error wrapping ErrDestroyed and never touch the
state of the Core built after it. The config store is owned by the
Accessor and keeps its values across Destroy.

# Errors

Operations that the caller can get wrong return an error wrapping
errors.ErrInvalidArgument and change nothing. Callers that only want
best-effort behaviour can ignore those errors.

# Sub-packages

  - event: the registry behind On, Off and Emit
  - storage: the key/value store
  - config: sections of string properties, file loaders and a watcher
  - httpreq: deferred HTTP requests with Done and Fail callbacks
  - observability: slog helpers, OpenTelemetry metrics and spans
*/
package appcore
