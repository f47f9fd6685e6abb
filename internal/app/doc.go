// Package app assembles the search provider service from its parts.
//
// An App owns the content store, one dispatcher per provider family, the
// router serving them under a subtree, and the lifecycle service binding
// that router (or a single provider) to the bus.
//
// Example Usage:
//
//	conn, err := bus.Connect(cfg.Bus.Type)
//	if err != nil {
//	    return err
//	}
//	a, err := app.New(ctx, cfg, conn)
//	if err != nil {
//	    return err
//	}
//	if err := a.Start(ctx); err != nil {
//	    return err
//	}
//	defer a.Stop()
package app
