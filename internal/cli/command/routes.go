package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// RoutesCommand returns the routes subcommand group.
func RoutesCommand() *cli.Command {
	fileFlag := &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Routing table JSON file (- for stdin)",
		Required: true,
	}

	return &cli.Command{
		Name:  "routes",
		Usage: "Routing table management",
		Subcommands: []*cli.Command{
			{
				Name:   "put",
				Usage:  "Replace the routing table wholesale",
				Flags:  []cli.Flag{fileFlag},
				Action: routesPut,
			},
			{
				Name:   "patch",
				Usage:  "Merge entries into the routing table",
				Flags:  []cli.Flag{fileFlag},
				Action: routesPatch,
			},
		},
	}
}

func routesPut(c *cli.Context) error {
	return uploadRoutes(c, "replaced", func(ctx context.Context, table io.Reader) (int, error) {
		cl, err := newClient(c)
		if err != nil {
			return 0, err
		}
		return cl.PutRoutingTable(ctx, table)
	})
}

func routesPatch(c *cli.Context) error {
	return uploadRoutes(c, "merged", func(ctx context.Context, table io.Reader) (int, error) {
		cl, err := newClient(c)
		if err != nil {
			return 0, err
		}
		return cl.PatchRoutingTable(ctx, table)
	})
}

func uploadRoutes(c *cli.Context, verb string, apply func(context.Context, io.Reader) (int, error)) error {
	path := c.String("file")

	var table io.Reader
	if path == "-" {
		table = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open table file: %w", err)
		}
		defer f.Close()
		table = f
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	entries, err := apply(ctx, table)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "routing table %s: %d entries\n", verb, entries)
	return nil
}
