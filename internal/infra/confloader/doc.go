// Package confloader provides configuration loading for LinkMesh.
//
// This package implements a flexible configuration loader that supports
// multiple sources using koanf as the underlying library. The result is
// consumed as an immutable structure at startup; there is no reload
// after the process is up.
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration files
//  4. Default values
//
// @design DS-0502
// @adr AD-0501
package confloader
