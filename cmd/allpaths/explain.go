package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/allpaths"
	"github.com/autom8ter/allpaths/catalog"
	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/util"
	"github.com/spf13/cobra"
)

// planFlags are the flags shared by the planning commands
type planFlags struct {
	catalogPath string
	configPath  string
	options     []string
	logLevel    string
	template    string
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.catalogPath, "catalog", "c", "catalog.yaml", "path to the index catalog (yaml or json)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a planner config (yaml or json)")
	cmd.Flags().StringSliceVarP(&f.options, "option", "o", nil, "planner options, ex: INCLUDE_COLLSCAN,IS_COUNT")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "planner log level")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "go template (with sprig functions) rendering each result instead of json")
}

func (f *planFlags) planner() (allpaths.Planner, []model.Index, error) {
	indexes, err := catalog.LoadFile(f.catalogPath)
	if err != nil {
		return nil, nil, err
	}
	cfg := allpaths.DefaultConfig()
	if f.configPath != "" {
		bits, err := os.ReadFile(f.configPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.NotFound, "failed to read config %s", f.configPath)
		}
		bits, err = util.YAMLToJSON(bits)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.Validation, "failed to convert config to json")
		}
		values := map[string]any{}
		if err := json.Unmarshal(bits, &values); err != nil {
			return nil, nil, errors.Wrap(err, errors.Validation, "failed to decode config")
		}
		if cfg, err = allpaths.LoadConfig(values); err != nil {
			return nil, nil, err
		}
	}
	if len(f.options) > 0 {
		if cfg.Options, err = allpaths.ParseOptions(f.options); err != nil {
			return nil, nil, err
		}
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	p, err := allpaths.New(allpaths.WithConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return p, indexes, nil
}

// render writes the result as its explain document, or through the template
func (f *planFlags) render(w io.Writer, res *allpaths.Result) error {
	if f.template == "" {
		out, err := res.Explain()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}
	tmpl, err := template.New("").Funcs(sprig.TxtFuncMap()).Parse(f.template)
	if err != nil {
		return errors.Wrap(err, errors.Validation, "failed to parse template")
	}
	buf := bytes.NewBuffer(nil)
	if err := tmpl.Execute(buf, map[string]any{
		"id":        res.ID,
		"solutions": res.Strings(),
		"indexed":   res.HasIndexedPlan(),
	}); err != nil {
		return errors.Wrap(err, errors.Validation, "failed to render template")
	}
	_, err = fmt.Fprintln(w, buf.String())
	return err
}

// decodeRequest parses a yaml or json request document
func decodeRequest(bits []byte) (model.Request, error) {
	var req model.Request
	bits, err := util.YAMLToJSON(bits)
	if err != nil {
		return req, errors.Wrap(err, errors.Validation, "failed to convert request to json")
	}
	if err := json.Unmarshal(bits, &req); err != nil {
		return req, errors.Wrap(err, errors.Validation, "failed to decode request")
	}
	return req, nil
}

func explainCmd() *cobra.Command {
	var flags planFlags
	cmd := &cobra.Command{
		Use:   "explain [request json]",
		Short: "print the candidate plans of a request",
		Example: `allpaths explain --catalog catalog.yaml '{"filter": {"a": {"$gt": 5}}, "sort": {"a": 1}}'
allpaths explain -c catalog.yaml -t '{{ range .solutions }}{{ . }}{{ "\n" }}{{ end }}' '{"filter": {"a": 1}}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, indexes, err := flags.planner()
			if err != nil {
				return err
			}
			req, err := decodeRequest([]byte(args[0]))
			if err != nil {
				return err
			}
			res, err := p.Plan(context.Background(), req, indexes)
			if err != nil {
				return err
			}
			return flags.render(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	return cmd
}
