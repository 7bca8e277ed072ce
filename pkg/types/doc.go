// Package types defines the Store and Collection interfaces, the
// domain entities (Material, Drum, Pallet), collection schemas, and the
// standard error taxonomy for the Palletline tracking system.
package types
