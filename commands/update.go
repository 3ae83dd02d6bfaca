package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twystd/outreach/lookup"
)

var UpdateCmd = Update{}

type Update struct {
}

func (cmd *Update) Name() string {
	return "update"
}

func (cmd *Update) Description() string {
	return "Sets the 'Responded?' status of the contact found by the last search"
}

func (cmd *Update) Usage() string {
	return "<status>"
}

func (cmd *Update) Command(options *Options) *cobra.Command {
	return &cobra.Command{
		Use:   cmd.Name() + " <status>",
		Short: cmd.Description(),
		Long: `Writes the status to the 'Responded?' cell of the contact found by the most
recent successful search. The status must be one of the configured statuses
(case is ignored). Does nothing if no contact has been found.

Example:
  outreach update "Follow Up"`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Execute(c.Context(), options, args[0])
		},
	}
}

func (cmd *Update) Execute(ctx context.Context, options *Options, status string) error {
	cfg, err := getConfig(options)
	if err != nil {
		return err
	}

	s, err := getStore(options)
	if err != nil {
		return err
	}

	defer s.Close()

	match, err := s.Match(ctx)
	if err != nil {
		return err
	} else if match == nil {
		warnf(options, "no contact selected - search for a contact before updating its status")
		options.printf("No contact selected.\n")
		return nil
	}

	api, err := getSheets(ctx, options, cfg)
	if err != nil {
		return err
	}

	session := lookup.NewSession(api, nil, cfg.Statuses, nil, options.logger())
	session.Match = match

	if err := session.Update(ctx, status); err != nil {
		return err
	}

	if err := s.SaveMatch(ctx, session.Match); err != nil {
		return err
	}

	options.printf("Updated %v (%v) to '%v'\n", strings.TrimSpace(match.Email), match.Address, session.Match.Status)

	return nil
}
