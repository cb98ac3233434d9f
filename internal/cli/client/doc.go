// Package client provides the admin HTTP client for linkmesh-cli.
//
// The client talks to the server's /admin endpoints with a Bearer
// token and gzip-compresses table uploads.
//
// @design DS-0401
package client
