// Package marking holds the value types a marking is built from.
//
// Every value is obtained through a Parse function that turns untrusted text
// into a well-formed value or a *ValidationError. NewMarking can only be
// assembled from parsed parts, so holding one means all three parts passed.
// Nothing here touches storage or transport and every function is safe to
// call from any number of goroutines.
package marking
