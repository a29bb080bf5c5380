// Command xmlconfig loads a schema-validated XML configuration document and
// evaluates one XPath expression against it, printing the normalized result
// as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ygrebnov/xmlconfig"
	"github.com/ygrebnov/xmlconfig/streams"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		file     string
		schema   string
		fallback string
		all      bool
		noCache  bool
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:           "xmlconfig <xpath>",
		Short:         "Query a schema-validated XML configuration document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sink streams.BasicIOStreams
			if quiet {
				sink = streams.Discard()
			} else {
				logger := zerolog.New(zerolog.ConsoleWriter{
					Out:        cmd.ErrOrStderr(),
					TimeFormat: time.RFC3339,
				}).With().Timestamp().Logger()
				sink = streams.Zerolog(logger)
			}

			opts := []xmlconfig.Option{
				xmlconfig.WithSchema(schema),
				xmlconfig.WithStreams(sink),
			}
			if fallback != "" {
				opts = append(opts, xmlconfig.WithDefaultDocument(fallback))
			}
			if noCache {
				opts = append(opts, xmlconfig.WithoutCache())
			}

			store := xmlconfig.New(opts...)
			store.Load(file)
			if store.Document() == nil {
				return fmt.Errorf("no valid configuration document could be installed from %s", file)
			}

			var result any
			if all {
				result = store.GetAll(args[0])
			} else {
				result = store.Get(args[0])
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "XML document to load")
	cmd.Flags().StringVar(&schema, "schema", "", "XSD schema to validate against")
	cmd.Flags().StringVar(&fallback, "default", "", "fallback document used when loading or validation fails")
	cmd.Flags().BoolVar(&all, "all", false, "always print a JSON array, even for single matches")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable query result caching")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress diagnostics")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
