package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/flexform/templates"
)

func newCompileCmd(a *app) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "compile TEMPLATE [DATA]",
		Short: "Validate data and render the message",
		Long: "TEMPLATE is a built-in id or a template file. DATA is a JSON or YAML file, " +
			"or - for stdin. With --sample the template's sample data is used.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTemplate(args[0])
			if err != nil {
				return err
			}
			var data map[string]any
			switch {
			case sample:
				data = t.SampleData
			case len(args) == 2:
				if data, err = readData(args[1], cmd.InOrStdin()); err != nil {
					return err
				}
			default:
				return fmt.Errorf("compile needs DATA or --sample")
			}
			res := a.compiler().Compile(t, data)
			a.log.Debug("compiled", "template", args[0], "kind", res.Kind, "mode", res.Mode, "errors", len(res.Errors))
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.CanPublish() {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "compile the template's sample data")
	return cmd
}

func newDefaultsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults TEMPLATE",
		Short: "Print the initial form data built from schema defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTemplate(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a.compiler().Defaults(t))
		},
	}
}

func newJSONSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema TEMPLATE",
		Short: "Print a JSON Schema for the form data of the resolved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTemplate(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a.compiler().Resolve(t).Schema.JSONSchema())
		},
	}
}

type builtinInfo struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Mode        templates.RenderMode `json:"mode"`
	Version     int                  `json:"version"`
}

func newBuiltinsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out []builtinInfo
			for _, t := range templates.Builtins() {
				out = append(out, builtinInfo{ID: t.ID, Name: t.Name, Description: t.Description, Mode: t.EffectiveMode(), Version: t.Version})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
