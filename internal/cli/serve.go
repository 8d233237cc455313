package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rosterfmt/pkg/api"
)

// serveCommand creates the serve command, which runs the HTTP API until the
// context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxUpload int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the sort, split and rank operations over HTTP.

  POST /v1/sort    multipart upload, returns the sorted workbook
  POST /v1/split   multipart upload, returns the separated workbook
  GET  /v1/rank    ?label=XL&label=3XL, returns ranks as JSON
  GET  /healthz    liveness and version`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := api.New(c.Config, c.Logger)
			if err != nil {
				return err
			}
			if maxUpload > 0 {
				srv.MaxUploadBytes = maxUpload
			}

			printInfo("Serving the rosterfmt API")
			printKeyValue("address", addr)
			printKeyValue("max upload", fmt.Sprintf("%d bytes", srv.MaxUploadBytes))
			if c.configPath != "" {
				printKeyValue("config", c.configPath)
			}
			printNewline()
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", api.DefaultMaxUploadBytes, "maximum upload size in bytes")

	return cmd
}
