package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twystd/outreach/store"
)

var TemplatesCmd = Templates{}

type Templates struct {
	id      string
	title   string
	content string
}

func (cmd *Templates) Name() string {
	return "templates"
}

func (cmd *Templates) Description() string {
	return "Manages the saved email templates"
}

func (cmd *Templates) Usage() string {
	return "list | show <id> | save [--id <id>] --title <title> --content <text> | delete <id>"
}

func (cmd *Templates) Command(options *Options) *cobra.Command {
	c := &cobra.Command{
		Use:   cmd.Name(),
		Short: cmd.Description(),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Lists the saved templates",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.list(c.Context(), options)
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Prints a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.show(c.Context(), options, args[0])
		},
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Adds a new template or replaces the template with the given ID",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.save(c.Context(), options)
		},
	}

	save.Flags().StringVar(&cmd.id, "id", cmd.id, "ID of the template to replace")
	save.Flags().StringVar(&cmd.title, "title", cmd.title, "Template title")
	save.Flags().StringVar(&cmd.content, "content", cmd.content, "Template text")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Deletes a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.delete(c.Context(), options, args[0])
		},
	}

	c.AddCommand(list, show, save, remove)

	return c
}

func (cmd *Templates) list(ctx context.Context, options *Options) error {
	return withStore(options, func(s *store.SQLiteStore) error {
		templates, err := s.Templates(ctx)
		if err != nil {
			return err
		}

		if len(templates) == 0 {
			options.printf("No saved templates\n")
		}

		for _, t := range templates {
			options.printf("%-36s  %s\n", t.ID, t.Title)
		}

		return nil
	})
}

func (cmd *Templates) show(ctx context.Context, options *Options, id string) error {
	return withStore(options, func(s *store.SQLiteStore) error {
		t, err := s.Template(ctx, id)
		if err != nil {
			return err
		} else if t == nil {
			return fmt.Errorf("Unknown template '%v'", id)
		}

		options.printf("%s\n\n%s\n", t.Title, t.Content)

		return nil
	})
}

func (cmd *Templates) save(ctx context.Context, options *Options) error {
	return withStore(options, func(s *store.SQLiteStore) error {
		t, err := s.SaveTemplate(ctx, store.Template{
			ID:      cmd.id,
			Title:   cmd.title,
			Content: cmd.content,
		})

		if err != nil {
			return err
		}

		infof(options, "saved template %v", t.ID)
		options.printf("%s\n", t.ID)

		return nil
	})
}

func (cmd *Templates) delete(ctx context.Context, options *Options, id string) error {
	return withStore(options, func(s *store.SQLiteStore) error {
		return s.DeleteTemplate(ctx, id)
	})
}

func withStore(options *Options, f func(s *store.SQLiteStore) error) error {
	s, err := getStore(options)
	if err != nil {
		return err
	}

	defer s.Close()

	return f(s)
}
