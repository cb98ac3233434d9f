// Package shutdown provides graceful shutdown coordination for LinkMesh.
//
// The coordinator installs handlers for interrupt and termination
// signals. The first signal flips a broadcast closing state; registered
// hooks then run in reverse registration order under a bounded drain
// timeout. A second signal while draining has no additional effect; a
// hard kill is left to external supervision.
//
// @design DS-0105
package shutdown
