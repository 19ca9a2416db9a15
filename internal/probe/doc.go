// Package probe turns raw health signals into a diagnosis. Adapters gather
// the signals (run state, provider status checks, ingress rules, the
// key-injection probe); this package owns the classification rules so every
// provider grades an instance the same way.
package probe
