package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapprose/internal/cli/config"
	"github.com/leapstack-labs/leapprose/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC.
The project configuration is read from the workspace root sent
in the client's initialization request (rootUri parameter), and
reloaded when leapprose.yaml is saved.`,
		Example: `  # Start LSP server (usually called by an editor)
  leapprose lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command) error {
	logger := config.GetLogger(cmd.Context())
	server := lsp.NewServerWithLogger(os.Stdin, os.Stdout, logger)
	return server.Run()
}
