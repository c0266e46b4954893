/*
Package domain defines the core vocabulary of the Pathway engine.

It contains the State contract that every pathway state kind satisfies, the
Entity being simulated, the per-entity execution History, lifecycle hooks for
observability, and the sentinel errors shared across packages.

Domain types carry no dependencies on the registry or the runtime; adapters
and state catalogs depend on this package, never the other way around.
*/
package domain
