package command

import (
	"context"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/linkmesh-go/internal/cli/output"
)

// CodesCommand returns the codes command.
func CodesCommand() *cli.Command {
	return &cli.Command{
		Name:   "codes",
		Usage:  "List the raw ID to code assignments",
		Action: codesList,
	}
}

func codesList(c *cli.Context) error {
	cl, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	codes, err := cl.Codes(ctx)
	if err != nil {
		return err
	}

	if output.Format(c.String("output")) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(c.App.Writer, codes)
	}

	table := &output.Table{Headers: []string{"ID", "CODE"}}
	for _, id := range sortedKeys(codes) {
		table.AddRow(id, codes[id])
	}
	return table.Render(c.App.Writer)
}

// sortedKeys returns the map keys in sorted order for stable output.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
