package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/reoring/flexform/docs"
	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/store"
	"github.com/reoring/flexform/templates"
)

// openStore opens the configured database and seeds the built-ins.
func (a *app) openStore(ctx context.Context) (*store.SQL, error) {
	s, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.SeedBuiltins(ctx, s); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (a *app) withService(ctx context.Context, fn func(*docs.Service, *store.SQL) error) error {
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	svc := docs.NewService(s, s, docs.WithCompiler(a.compiler()), docs.WithLogger(a.log))
	return fn(svc, s)
}

func newTemplateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage stored templates",
	}
	var publish bool
	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := templates.Load(args[0])
			if err != nil {
				return err
			}
			if publish {
				t.Publish()
			}
			return a.withService(cmd.Context(), func(_ *docs.Service, s *store.SQL) error {
				if err := s.PutTemplate(cmd.Context(), t); err != nil {
					return err
				}
				a.log.Info("template imported", "template_id", t.ID, "mode", t.Mode)
				return printJSON(cmd.OutOrStdout(), t)
			})
		},
	}
	importCmd.Flags().BoolVar(&publish, "publish", false, "mark the template published")
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(_ *docs.Service, s *store.SQL) error {
				list, err := s.ListTemplates(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.AddCommand(importCmd, listCmd)
	return cmd
}

func newDocCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Manage documents",
	}
	run := func(fn func(cmd *cobra.Command, svc *docs.Service, args []string) (any, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(svc *docs.Service, _ *store.SQL) error {
				out, err := fn(cmd, svc, args)
				if list, ok := issue.AsList(err); ok {
					if perr := printJSON(cmd.OutOrStdout(), list); perr != nil {
						return perr
					}
					return errInvalid
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		}
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create TEMPLATE_ID TITLE",
			Short: "Create a draft from a stored template",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(cmd *cobra.Command, svc *docs.Service, args []string) (any, error) {
				return svc.Create(cmd.Context(), args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "update ID DATA",
			Short: "Replace a document's form data",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(cmd *cobra.Command, svc *docs.Service, args []string) (any, error) {
				data, err := readData(args[1], cmd.InOrStdin())
				if err != nil {
					return nil, err
				}
				return svc.UpdateData(cmd.Context(), args[0], data)
			}),
		},
		&cobra.Command{
			Use:   "publish ID",
			Short: "Publish a document",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, svc *docs.Service, args []string) (any, error) {
				return svc.Publish(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "show ID",
			Short: "Print a document",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, svc *docs.Service, args []string) (any, error) {
				return svc.Get(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "deliver ID",
			Short: "Print the message to send for a published document",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, svc *docs.Service, args []string) (any, error) {
				return svc.Deliverable(cmd.Context(), args[0])
			}),
		},
	)
	return cmd
}
