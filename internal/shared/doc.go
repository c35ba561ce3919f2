// Package shared holds cross-cutting helpers that belong to no single
// pipeline stage.
//
// The testutil subpackage provides the buffered slog handler and assertion
// helpers that package tests use to verify log shape (messages, levels,
// structured attrs) without parsing formatted output.
//
// Nothing in this tree may import other internal packages; it sits below
// every stage of the pipeline.
package shared
