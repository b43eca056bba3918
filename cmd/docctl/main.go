// docctl is a command-line inspector and editor for substance documents: it
// creates, shows, queries, and edits the node tree a Document wraps, and
// persists it as a Node-JSON snapshot on disk.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/substancehq/substance/internal/config"
)

var (
	docPath    string
	jsonOutput bool
	noColor    bool

	doc *loadedDocument

	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"})
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"})
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

var rootCmd = &cobra.Command{
	Use:   "docctl",
	Short: "docctl - inspect and edit substance documents",
	Long:  "docctl loads a substance document from a snapshot file, lets you create, query, and undo/redo edits, and writes the result back.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cliCfg, err := config.LoadCLIConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if !cmd.Flags().Changed("no-color") {
			noColor = cliCfg.NoColor
		}
		if noColor {
			lipgloss.SetColorProfile(0)
		}

		d, err := openDocument(docPath)
		if err != nil {
			return err
		}
		doc = d
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if doc == nil {
			return nil
		}
		return doc.save()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&docPath, "doc", ".substance/snapshot.json", "path to the document snapshot file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colorized output")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, failStyle.Render("docctl: "+err.Error()))
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}
