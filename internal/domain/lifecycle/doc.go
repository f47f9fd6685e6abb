// Package lifecycle binds providers to a bus connection while the service is
// registered.
//
// A Service moves between two states. Register runs the platform hooks (bus
// name ownership and the like) and then exports either a whole subtree
// served by a SubtreeHandler, or the skeleton of one process-wide provider at
// a fixed path. Unregister removes the export and runs the platform's
// unregister hook. Provider caches live in the handler, not in the Service,
// so they survive any number of register/unregister cycles.
//
// Example Usage:
//
//	svc := lifecycle.NewSubtreeService(router).
//		WithHooks(nameOwner).
//		WithLogger(logger)
//	if err := svc.Register(ctx, conn, "/com/endlessm/EknServices3/SearchProviderV3"); err != nil {
//		return err
//	}
//	defer svc.Unregister()
package lifecycle
