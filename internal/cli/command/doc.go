// Package command provides CLI command definitions for linkmesh-cli.
//
// It uses urfave/cli/v2 for command parsing. Every command is a thin
// wrapper over the admin HTTP client.
//
// @design DS-0401
package command
