// Package bus adapts a godbus connection to the service lifecycle.
//
// Features:
//   - Subtree export: one method table per interface resolves the called
//     child node through the dispatch handler on every call
//   - Single object export for the single-app mode
//   - Introspection: the subtree root carries no interfaces, children
//     carry every interface the handler serves
//   - Error mapping from domain errors to D-Bus error names
//   - Well-known name ownership as lifecycle hooks
//   - Launcher proxy for activating results in the knowledge app itself
//
// Provider packages describe their interfaces as Interface values and the
// caller collects them in a Catalog handed to NewConn.
package bus
