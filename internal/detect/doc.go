// Package detect locates SEEG electrode contacts in CT volumes and groups
// them into per-electrode chains.
//
// The default strategy finds local intensity maxima, connects candidates
// whose pairwise distance matches a known contact pitch, keeps connected
// components that are long and straight enough, and reconciles the chains
// found across several pitch windows. A density-clustering fallback is
// available behind the same Detector interface for comparison runs.
//
// Everything in this package is a pure function of the input volume and the
// Config record: no state survives a call, and distinct volumes may be
// processed concurrently.
package detect
