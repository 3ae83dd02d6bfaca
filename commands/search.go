package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twystd/outreach"
	"github.com/twystd/outreach/directory"
	"github.com/twystd/outreach/locator"
)

var SearchCmd = Search{
	sheet: directory.ALL,
}

type Search struct {
	sheet     string
	sweep     bool
	status    string
	eventType string
	asJSON    bool
}

func (cmd *Search) Name() string {
	return "search"
}

func (cmd *Search) Description() string {
	return "Finds a contact by email and remembers it for 'update'"
}

func (cmd *Search) Usage() string {
	return "<email> [--sheet ALL|<spreadsheet>/<sheet>|<sheet>] [--sweep] [--set-status <status>] [--event-type <event type>]"
}

func (cmd *Search) Command(options *Options) *cobra.Command {
	c := &cobra.Command{
		Use:   cmd.Name() + " <email>",
		Short: cmd.Description(),
		Long: `Searches the selected worksheet for the first row with a matching email.

With --sheet ALL (the default) the SentLog is checked first if it is enabled in
the configuration, otherwise every sheet is searched in turn until the contact
is found. --sweep skips the SentLog.

Examples:
  outreach search ann@example.com
  outreach search ann@example.com --sheet "Leads 2026/Webinar" --set-status "Follow Up"
  outreach search ann@example.com --event-type "Intro call"`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Execute(c.Context(), options, args[0])
		},
	}

	c.Flags().StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet to search ('ALL' searches every sheet)")
	c.Flags().BoolVar(&cmd.sweep, "sweep", cmd.sweep, "Searches every sheet without checking the SentLog")
	c.Flags().StringVar(&cmd.status, "set-status", cmd.status, "Updates the 'Responded?' cell of the contact")
	c.Flags().StringVar(&cmd.eventType, "event-type", cmd.eventType, "Generates a prefilled Calendly scheduling link for the event type")
	c.Flags().BoolVar(&cmd.asJSON, "json", cmd.asJSON, "Prints the contact as JSON")

	return c
}

func (cmd *Search) Execute(ctx context.Context, options *Options, email string) error {
	cfg, err := getConfig(options)
	if err != nil {
		return err
	}

	s, err := getStore(options)
	if err != nil {
		return err
	}

	defer s.Close()

	if err := s.ClearMatch(ctx); err != nil {
		return err
	}

	api, err := getSheets(ctx, options, cfg)
	if err != nil {
		return err
	}

	session, err := getSession(ctx, options, cfg, api)
	if err != nil {
		return err
	}

	match, err := session.Search(ctx, cmd.sheet, email, cmd.sweep)
	if errors.Is(err, outreach.ErrNotFound) {
		options.printf("%v\n", err)
		return nil
	} else if err != nil {
		return err
	}

	if err := s.SaveMatch(ctx, match); err != nil {
		return err
	}

	if cmd.status != "" {
		if err := session.Update(ctx, cmd.status); err != nil {
			return err
		}

		if err := s.SaveMatch(ctx, session.Match); err != nil {
			return err
		}
	}

	if cmd.asJSON {
		bytes, err := json.MarshalIndent(session.Match, "", "  ")
		if err != nil {
			return err
		}

		options.printf("%s\n", bytes)
	} else {
		describe(options, session.Match)
	}

	if cmd.eventType != "" {
		link, err := schedulingLink(ctx, options, cfg, s, cmd.eventType, match.Name, match.Email)
		if err != nil {
			return fmt.Errorf("Unable to generate scheduling link (%w)", err)
		}

		options.printf("\n  Scheduling link: %v\n", link)
	}

	return nil
}

func describe(options *Options, match *locator.MatchResult) {
	options.printf("Found in %v/%v (row %v)\n", match.Source, match.Sheet, match.Row)
	options.printf("  Name:       %v\n", match.Name)
	options.printf("  Email:      %v\n", match.Email)
	options.printf("  Responded?: %v\n", match.Status)
}
