package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alpha-prosoft/eventseed/config"
	"github.com/alpha-prosoft/eventseed/domain"
	"github.com/alpha-prosoft/eventseed/errors"
	"github.com/alpha-prosoft/eventseed/fs/billy"
	schema "github.com/alpha-prosoft/eventseed/schemas"
	"github.com/alpha-prosoft/eventseed/seed"
)

// RemapCmd returns the remap command.
func RemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remap [template]",
		Short: "Remap a template onto fresh identifiers and print it",
		Long: `Rewrite a template aggregate onto a fresh set of identifiers and print the
result to stdout. Nothing is submitted or published.

The template defaults to EVENTSEED_TEMPLATE (sample.json).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRemap,
	}

	cmd.Flags().Bool("skip-schema", false, "Do not validate the template against the schema")

	return cmd
}

func runRemap(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path = cfg.Template.Path
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeFilesystem, "resolve template path")
	}
	data, err := billy.NewOSFS("/").ReadFile(abs)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "read template",
			map[string]interface{}{"path": path})
	}

	var validator *schema.Validator
	if skip, _ := cmd.Flags().GetBool("skip-schema"); !skip {
		if validator, err = schema.NewValidator(); err != nil {
			return err
		}
	}

	alloc := domain.Allocate()
	out, idMap, err := seed.RemapTemplate(data, alloc, validator)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	for oldID, newID := range idMap {
		logger.InfoContext(cmd.Context(), "activity remapped", "from", oldID.String(), "to", newID.String())
	}
	logger.InfoContext(cmd.Context(), "template remapped", "event_id", alloc.EventID().String())

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
