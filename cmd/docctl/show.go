package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/substancehq/substance/internal/container"
	"github.com/substancehq/substance/internal/store"
)

var showRoot string

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "print the document as a colorized node tree, rooted at id (default: the root body)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := rootBodyID
		if showRoot != "" {
			root = showRoot
		}
		if len(args) == 1 {
			root = args[0]
		}

		n, ok := doc.doc.Store().Get(root)
		if !ok {
			return fmt.Errorf("node %q not found", root)
		}

		width := terminalWidth()
		var sb strings.Builder
		renderNode(&sb, doc.doc.Store(), n, 0, width)
		fmt.Print(sb.String())
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showRoot, "root", "", "node id to root the tree at")
	rootCmd.AddCommand(showCmd)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func renderNode(sb *strings.Builder, s *store.Store, n *store.Node, depth int, width int) {
	indent := strings.Repeat("  ", depth)
	label := accentStyle.Render(n.ID) + " " + mutedStyle.Render("("+n.Type+")")

	if content, ok := n.Str("content"); ok && content != "" {
		text := content
		if max := width - len(indent) - 4; max > 0 && len(text) > max {
			text = text[:max] + "…"
		}
		label += " " + lipgloss.NewStyle().Italic(true).Render(text)
	}
	sb.WriteString(indent + label + "\n")

	for _, childID := range container.Nodes(n) {
		child, ok := s.Get(childID)
		if !ok {
			continue
		}
		renderNode(sb, s, child, depth+1, width)
	}
}
