/*
Package states is the built-in catalog of state kinds.

The engine itself is content-agnostic: it only requires the domain.State
contract. This package supplies the default content boundary — a small closed
set of kinds (Initial/Simple, Delay, Guard, CallSubmodule, Terminal) with
direct, conditional, and distributed transitions. Conditions are a closed
attribute-comparison form, not an expression language.
*/
package states
