package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/util"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func batchCmd() *cobra.Command {
	var (
		flags    planFlags
		requests string
	)
	cmd := &cobra.Command{
		Use:     "batch",
		Short:   "plan a file of requests in parallel",
		Example: `allpaths batch --catalog catalog.yaml --requests requests.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, indexes, err := flags.planner()
			if err != nil {
				return err
			}
			bits, err := os.ReadFile(requests)
			if err != nil {
				return errors.Wrap(err, errors.NotFound, "failed to read requests %s", requests)
			}
			if bits, err = util.YAMLToJSON(bits); err != nil {
				return errors.Wrap(err, errors.Validation, "failed to convert requests to json")
			}
			raw := gjson.ParseBytes(bits)
			if r := raw.Get("requests"); r.Exists() {
				raw = r
			}
			var reqs []model.Request
			if err := json.Unmarshal([]byte(raw.Raw), &reqs); err != nil {
				return errors.Wrap(err, errors.Validation, "failed to decode requests")
			}
			results, err := p.PlanAll(context.Background(), reqs, indexes)
			if err != nil {
				return err
			}
			for _, res := range results {
				if err := flags.render(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&requests, "requests", "r", "requests.yaml", "path to a list of requests (yaml or json)")
	return cmd
}
