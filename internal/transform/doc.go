// Package transform defines the closed set of list transformers (split, cut,
// path) and the Spec that selects one of them. A pipeline stage uses New to
// build a Transformer from a Spec; transformers are immutable and may be
// shared by concurrent evaluations.
package transform
