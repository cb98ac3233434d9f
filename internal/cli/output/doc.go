// Package output provides output formatting for linkmesh-cli.
//
// Two formats are supported: an aligned text table for humans and
// indented JSON for scripting.
//
// @design DS-0402
package output
