// Package pipeline provides a framework for executing analysis steps in
// sequence over a parsed page-load graph.
//
// An analysis run takes one graph through multiple stages: graph summary,
// script activity, modification ranking, third-party grouping, and filter
// matching. Each stage is implemented as a Step that receives the graph and
// the accumulated report.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for large graphs
//
// The pipeline supports both single-graph analysis and batch processing of
// many graph files with concurrency control using errgroup.
package pipeline
