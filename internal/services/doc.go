// Package services orchestrates document generation: it opens the
// metadata source, runs the graph passes and the assembly stage, and
// writes the serialized document.
package services
