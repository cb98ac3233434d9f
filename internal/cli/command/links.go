package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/linkmesh-go/internal/cli/output"
)

// LinksCommand returns the links command.
func LinksCommand() *cli.Command {
	return &cli.Command{
		Name:   "links",
		Usage:  "List the full short link per ID",
		Action: linksList,
	}
}

func linksList(c *cli.Context) error {
	cl, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	links, err := cl.Links(ctx)
	if err != nil {
		return err
	}

	if output.Format(c.String("output")) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(c.App.Writer, links)
	}

	table := &output.Table{Headers: []string{"ID", "LINK"}}
	for _, id := range sortedKeys(links) {
		table.AddRow(id, links[id])
	}
	return table.Render(c.App.Writer)
}
