package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/linkmesh-go/internal/cli/output"
)

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check server health",
		Action: healthCheck,
	}
}

func healthCheck(c *cli.Context) error {
	cl, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	result, err := cl.Health(ctx)
	if err != nil {
		PrintError("health check failed: %v", err)
		return fmt.Errorf("server unhealthy")
	}

	if output.Format(c.String("output")) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(c.App.Writer, result)
	}

	fmt.Fprintf(c.App.Writer, "server is healthy\n")
	fmt.Fprintf(c.App.Writer, "  target:  %s\n", cl.BaseURL())
	if version, ok := result["version"].(string); ok {
		fmt.Fprintf(c.App.Writer, "  version: %s\n", version)
	}
	if entries, ok := result["entries"].(float64); ok {
		fmt.Fprintf(c.App.Writer, "  entries: %.0f\n", entries)
	}
	return nil
}
