package command

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/linkmesh-go/internal/cli/client"
	"github.com/yndnr/linkmesh-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "linkmesh-cli",
		Usage:   "LinkMesh command-line management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RoutesCommand(),
			LinksCommand(),
			CodesCommand(),
			HealthCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "LinkMesh server address (e.g., localhost:5080)",
			EnvVars: []string{"LINKMESH_SERVER"},
			Value:   "localhost:5080",
		},
		&cli.StringFlag{
			Name:    "admin-token",
			Aliases: []string{"t"},
			Usage:   "Admin bearer token",
			EnvVars: []string{"LINKMESH_ADMIN_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "ca-cert",
			Usage:   "PEM file with the CA certificate to trust",
			EnvVars: []string{"LINKMESH_CA_CERT"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: 30 * time.Second,
		},
	}
}

// newClient builds the admin client from the global flags.
func newClient(c *cli.Context) (*client.Client, error) {
	opts := []client.Option{
		client.WithTimeout(c.Duration("timeout")),
	}
	if ca := c.String("ca-cert"); ca != "" {
		opts = append(opts, client.WithCACert(ca))
	}
	return client.New(c.String("server"), c.String("admin-token"), opts...)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
