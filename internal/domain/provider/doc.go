// Package provider defines the contracts between the subtree dispatcher and
// the search backends it serves.
//
// A Provider is bound to one application id and owns the Skeleton that is
// actually exported on the bus. Providers are built by a Factory the first
// time a child object is addressed and are kept for the life of the
// dispatcher.
//
// Creation failures are reported as *CreationError values carrying a Code,
// which the bus layer turns into named D-Bus errors.
package provider
