// Command flexc compiles Flex message templates and manages documents.
//
// Usage:
//
//	flexc compile builtin-poster data.yaml
//	flexc defaults ./coupon.yaml
//	flexc template import ./coupon.yaml
//	flexc doc create builtin-carousel "Spring sale"
//
// Settings come from FLEXFORM_* environment variables or a .env file; see
// internal/config.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/flexform"
	"github.com/reoring/flexform/i18n"
	"github.com/reoring/flexform/internal/config"
	"github.com/reoring/flexform/render"
)

// errInvalid marks a command whose output carries validation errors.
var errInvalid = errors.New("validation failed")

type app struct {
	cfg *config.Config
	log *slog.Logger
}

func (a *app) compiler() *flexform.Compiler {
	tr := i18n.Dictionary(a.cfg.Lang)
	return flexform.NewCompiler(
		flexform.WithTranslator(tr),
		flexform.WithRenderer(render.New(
			render.WithMaxPatchDepth(a.cfg.MaxPatchDepth),
			render.WithTranslator(tr),
		)),
		flexform.WithEnvelopeCheck(a.cfg.StrictEnvelope),
	)
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "flexc",
		Short:         "Compile Flex message templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			a.cfg = config.ReadConfig()
			a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: a.cfg.LogLevel}))
			slog.SetDefault(a.log)
			return nil
		},
	}
	root.AddCommand(
		newCompileCmd(a),
		newDefaultsCmd(a),
		newJSONSchemaCmd(a),
		newBuiltinsCmd(a),
		newTemplateCmd(a),
		newDocCmd(a),
	)
	return root
}

func main() {
	root := newRootCmd(os.Stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "flexc:", err)
		}
		os.Exit(1)
	}
}
