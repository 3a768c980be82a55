package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/desk/internal/configstore"
	"github.com/MrSnakeDoc/desk/internal/domain"
)

// --- show ---

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the icons in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, cancel, err := c.session(cmd, false)
			if err != nil {
				return err
			}
			defer cancel()
			c.show(d)
			return nil
		},
	}
}

// --- create ---

func (c *cli) createCmd() *cobra.Command {
	var name, link, image string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a shortcut at the next free slot",
		Long: `Create a shortcut at the next free slot.

Examples:
  deskctl create --name Wiki --link https://wiki.lan
  deskctl create --name NAS --link https://nas.lan --image icons/nas.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ctx, cancel, err := c.session(cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			id, err := d.CreateShortcut(ctx, name, link, image)
			if err != nil {
				return err
			}
			printSuccess(c.errOut, "Created %s", id)
			c.show(d)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "shortcut label (required)")
	cmd.Flags().StringVar(&link, "link", "", "URL opened by the shortcut (required)")
	cmd.Flags().StringVar(&image, "image", "", "image URL, defaults to the placeholder icon")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("link")
	return cmd
}

// --- delete ---

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ctx, cancel, err := c.session(cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			if err := d.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess(c.errOut, "Deleted %s", args[0])
			c.show(d)
			return nil
		},
	}
}

// --- rename ---

func (c *cli) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename an icon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ctx, cancel, err := c.session(cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			if err := d.Rename(ctx, args[0], args[1]); err != nil {
				return err
			}
			printSuccess(c.errOut, "Renamed %s to %s", args[0], strings.TrimSpace(args[1]))
			c.show(d)
			return nil
		},
	}
}

// --- set ---

func (c *cli) setCmd() *cobra.Command {
	var link, image string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Change the link or image of an icon",
		Long: `Change the link or image of an icon. Flags left out keep their value;
an empty value restores the default.

Examples:
  deskctl set shortcut_1700000000000 --link https://new.lan
  deskctl set shortcut_1700000000000 --image ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("link") && !cmd.Flags().Changed("image") {
				return fmt.Errorf("one of --link or --image is required")
			}

			d, ctx, cancel, err := c.session(cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			id := args[0]
			current, ok := d.Config().Icons[id]
			if ok {
				if !cmd.Flags().Changed("link") {
					link = current.Link
				}
				if !cmd.Flags().Changed("image") {
					image = current.ImageSrc
				}
			}
			if err := d.UpdateSettings(ctx, id, link, image); err != nil {
				return err
			}
			printSuccess(c.errOut, "Updated %s", id)
			c.show(d)
			return nil
		},
	}
	cmd.Flags().StringVar(&link, "link", "", "new URL")
	cmd.Flags().StringVar(&image, "image", "", "new image URL")
	return cmd
}

// --- move ---

func (c *cli) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Move an icon, keeping it inside the viewport",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x %q: %w", args[1], err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y %q: %w", args[2], err)
			}

			d, ctx, cancel, err := c.session(cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			pos, err := d.Move(ctx, args[0], x, y)
			if err != nil {
				return err
			}
			printSuccess(c.errOut, "Moved %s to (%d, %d)", args[0], pos.X, pos.Y)
			c.show(d)
			return nil
		},
	}
}

// --- sort ---

func (c *cli) sortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Arrange every icon on the grid by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ctx, cancel, err := c.session(cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			if err := d.SortByName(ctx); err != nil {
				return err
			}
			printSuccess(c.errOut, "Icons sorted by name")
			c.show(d)
			return nil
		},
	}
}

// --- size ---

func (c *cli) sizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "size <up|down|small|medium|large>",
		Short:     "Change the icon size and rearrange the grid",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "small", "medium", "large"},
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := strings.ToLower(args[0])
			var size domain.Size
			if arg != "up" && arg != "down" {
				s, ok := domain.ParseSize(arg)
				if !ok {
					return fmt.Errorf("unknown size %q, want up, down, small, medium or large", args[0])
				}
				size = s
			}

			d, ctx, cancel, err := c.session(cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			switch arg {
			case "up":
				size, err = d.ChangeSize(ctx, 1)
			case "down":
				size, err = d.ChangeSize(ctx, -1)
			default:
				err = d.SetSize(ctx, size)
			}
			if err != nil {
				return err
			}
			printSuccess(c.errOut, "Icon size is now %s", size)
			c.show(d)
			return nil
		},
	}
}

// --- export ---

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the configuration as JSON",
		Long: `Download the configuration as JSON.

Examples:
  deskctl export
  deskctl export -o backup.json
  deskctl export -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ctx, cancel, err := c.session(cmd, false)
			if err != nil {
				return err
			}
			defer cancel()

			data, err := d.Export(ctx)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := c.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			printSuccess(c.errOut, "Exported %d icons to %s", len(d.Config().Icons), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", configstore.ExportFileName, `destination file, "-" for stdout`)
	return cmd
}

// --- import ---

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the configuration with an exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			// Import replaces everything, so a failed load does not block it.
			d, ctx, cancel, err := c.session(cmd, false)
			if err != nil {
				return err
			}
			defer cancel()

			// Coerced values are logged by the desktop at warn level.
			warnings, err := d.Import(ctx, data)
			if err != nil {
				return err
			}
			printSuccess(c.errOut, "Imported %s (%d values coerced)", args[0], len(warnings))
			c.show(d)
			return nil
		},
	}
}
