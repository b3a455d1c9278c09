package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/internal/preview"
	"github.com/matzehuels/chartsmith/pkg/errors"
)

// previewCommand creates the preview command for serving charts over HTTP.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "preview [chart.toml]",
		Short: "Serve a chart preview over HTTP",
		Long: `Serve a chart preview over HTTP.

The server renders the chart as an SVG timeline, viewable in a browser.
With --watch, the chart file is polled for changes and the page reloads
itself, which pairs well with an 'edit' session in another terminal.

The listen address can also be set via CHARTSMITH_ADDR.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], addr, cmd.Flags().Changed("addr"), watch)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: 127.0.0.1:8470)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the chart when the file changes")

	return cmd
}

// runPreview starts the preview server and blocks until the context is
// cancelled.
func (c *CLI) runPreview(ctx context.Context, path, addr string, addrSet, watch bool) error {
	if err := errors.ValidateChartPath(path); err != nil {
		return err
	}

	cfg, err := preview.LoadConfig()
	if err != nil {
		return err
	}
	if addrSet {
		cfg.Addr = addr
	}
	cfg.Watch = watch

	srv, err := preview.NewServer(cfg, path, c.Logger)
	if err != nil {
		return err
	}

	printInfo("Serving %s at %s", StyleHighlight.Render(path), StyleLink.Render(previewURL(cfg.Addr)))
	printDetail("Press ctrl+c to stop")

	return srv.Run(ctx)
}

// previewURL turns a listen address into something a browser accepts.
func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
