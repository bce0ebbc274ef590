// Package hierarchy turns flat, overlapping span annotations into trees of
// structures.
//
// Levels are configured top-down, most general first, and built bottom-up:
// the spans of the most specific level become structures over tokens, the
// next level's spans become structures over those, and so on. A level may
// instead be turned into annotations on the dominance relations of the level
// above it. Afterwards structures covering no tokens are removed, the trees
// can be joined under a common root, and marker ids in structure annotation
// values can be resolved into pointing relations.
//
// A run mutates a single document graph and is not safe for concurrent use
// on the same graph. Independent documents may be processed in parallel.
package hierarchy
