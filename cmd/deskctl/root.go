package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/desk/internal/configstore"
	"github.com/MrSnakeDoc/desk/internal/desktop"
	"github.com/MrSnakeDoc/desk/internal/layout"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/version"
)

const defaultServer = "http://localhost:8080"

// cli carries the global flags and the output streams shared by every command.
type cli struct {
	server   string
	width    int
	height   int
	timeout  time.Duration
	logLevel string

	out    io.Writer
	errOut io.Writer
	log    logger.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	server := os.Getenv("DESKCTL_SERVER")
	if server == "" {
		server = defaultServer
	}

	root := &cobra.Command{
		Use:           "deskctl",
		Short:         "Arrange the desk icons from the command line",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.width <= 0 || c.height <= 0 {
				return fmt.Errorf("viewport must be positive, got %dx%d", c.width, c.height)
			}
			if os.Getenv("NO_COLOR") != "" {
				noColor = true
			}
			if c.log == nil {
				c.log = logger.NewCLI(c.logLevel)
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&c.server, "server", server, "desk server base URL (env DESKCTL_SERVER)")
	pf.IntVar(&c.width, "viewport-width", 1280, "desktop width in pixels")
	pf.IntVar(&c.height, "viewport-height", 600, "desktop height in pixels")
	pf.DurationVar(&c.timeout, "timeout", 10*time.Second, "time allowed for the whole command")
	pf.StringVar(&c.logLevel, "log-level", "warn", "debug | info | warn | error")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		c.showCmd(),
		c.createCmd(),
		c.deleteCmd(),
		c.renameCmd(),
		c.setCmd(),
		c.moveCmd(),
		c.sortCmd(),
		c.sizeCmd(),
		c.exportCmd(),
		c.importCmd(),
	)
	return root
}

// session loads the server state into a new Desktop. When requireState is
// set a failed load aborts the command, so the empty fallback can never be
// saved over the server copy.
func (c *cli) session(cmd *cobra.Command, requireState bool) (*desktop.Desktop, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)

	store := configstore.New(c.server, c.log)
	d := desktop.New(store, layout.Viewport{Width: c.width, Height: c.height}, c.log)
	if err := d.Start(ctx); err != nil {
		if requireState {
			cancel()
			return nil, nil, nil, fmt.Errorf("cannot load the desktop from %s: %w", c.server, err)
		}
		printWarning(c.errOut, "could not load the desktop from %s, showing the default: %v", c.server, err)
	}
	return d, ctx, cancel, nil
}

func (c *cli) show(d *desktop.Desktop) {
	printIcons(c.out, d.Config().Size, d.Icons())
}
