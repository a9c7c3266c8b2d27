package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "allpaths",
		Short: "plan queries over wildcard and regular index catalogs",
	}
	root.AddCommand(explainCmd(), batchCmd(), serveCmd())
	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
