// Package event provides the appcore event registry: a synchronous
// publish/subscribe mapping from event types to ordered handler sequences.
//
// # Registering and emitting
//
//	reg := event.NewRegistry(event.RegistryConfig{})
//
//	sub, err := reg.On("save", func(data any) {
//	    fmt.Println("saved", data)
//	})
//
//	reg.Emit(ctx, "save", doc) // calls the handler with doc
//	sub.Unsubscribe()
//
// # Handler identity
//
// A handler's identity is its code pointer. Two closures created from the
// same function literal have the same identity, so Off(type, fn) removes
// every handler built from fn's literal. Subscriptions give exact identity:
// Subscription.Unsubscribe removes only the handler that On registered.
//
// # Registration policy
//
// A registry uses one policy for its whole life:
//
//   - PolicyDedup (default): On ignores a handler whose identity is already
//     registered under the type and returns ErrDuplicateHandler with the
//     existing subscription. Emit calls it once.
//   - PolicyAppend: every On appends. Emit calls the handler once per
//     registration.
//
// # Emission
//
// Emit runs handlers synchronously in registration order over a snapshot
// taken when Emit starts. Handlers may register or remove handlers; those
// changes apply from the next Emit on. A handler panic is recovered and
// reported without stopping the pass.
//
// # Empty types
//
// An event type with no handlers is not kept. Removing the last handler
// deletes the type, and the next On recreates it.
//
// # Errors
//
// Invalid arguments (empty event type, nil handler) leave the registry
// unchanged and return an error matching errors.ErrInvalidArgument from the
// appcore errors package. Callers that want fail-silent behavior can ignore
// it.
package event
