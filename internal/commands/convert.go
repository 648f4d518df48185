package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wolph/mt940"
	"github.com/wolph/mt940/export"
	"github.com/wolph/mt940/internal/config"
	"github.com/wolph/mt940/model"
)

func newConvertCommand() *cobra.Command {
	var (
		format     string
		configPath string
		encoding   string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "convert <statement-file>",
		Short: "Convert a statement file to JSON, YAML or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if encoding != "" {
				cfg.Encoding = encoding
			}

			opts := cfg.Options()
			if verbose {
				log := zerolog.New(zerolog.ConsoleWriter{
					Out:        cmd.ErrOrStderr(),
					TimeFormat: time.RFC3339,
				}).With().Timestamp().Logger()
				opts = append(opts, mt940.WithLogger(log))
			}

			trans, err := mt940.ParseFile(args[0], opts...)
			if err != nil {
				return err
			}

			return write(cmd, trans, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or csv")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "conversion profile (mt940.yaml)")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "input character encoding to try first")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log tag matches while parsing")

	return cmd
}

func write(cmd *cobra.Command, trans *model.Transactions, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(trans)

	case "yaml":
		// Round-trip through JSON so the nested-data view applies.
		raw, err := json.Marshal(trans)
		if err != nil {
			return err
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return err
		}
		return yaml.NewEncoder(out).Encode(data)

	case "csv":
		return export.WriteTransactions(out, trans)

	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
