package main

import (
	"fmt"
	"net/http"

	"github.com/autom8ter/allpaths"
	transport "github.com/autom8ter/allpaths/transport/http"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		flags planFlags
		port  int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the planner over http",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, indexes, err := flags.planner()
			if err != nil {
				return err
			}
			level := flags.logLevel
			if level == "" {
				level = "info"
			}
			logger, err := allpaths.NewLogger(level, map[string]any{"component": "http"})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "starting http server on port :%v\n", port)
			return http.ListenAndServe(fmt.Sprintf(":%v", port), transport.Handler(p, indexes, logger))
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to serve on")
	return cmd
}
