package main

import (
	"fmt"

	"sdchart/cmd/sdchart/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	keysWidth int
	keysPlain bool
)

// keysCmd prints the key reference
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the grid's key bindings",
	RunE:  runKeys,
}

func init() {
	keysCmd.Flags().IntVar(&keysWidth, "width", 80, "Wrap width")
	keysCmd.Flags().BoolVar(&keysPlain, "plain", false, "Print raw markdown")
}

func runKeys(cmd *cobra.Command, args []string) error {
	keys := ui.DefaultKeyMap()
	if keysPlain {
		fmt.Fprint(cmd.OutOrStdout(), ui.HelpMarkdown(keys))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dark := ui.ThemeFor(cfg.UI.Theme).IsDark
	logger.Debug("Rendering key help", zap.Int("width", keysWidth), zap.Bool("dark", dark))

	out, err := ui.RenderHelp(keys, keysWidth, dark)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
