/*
Package ports defines the interfaces between the engine core and its adapters.

The registry loads module descriptions through a Source; the filesystem and
in-memory adapters provide concrete implementations.
*/
package ports
