package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twystd/outreach/calendly"
	"github.com/twystd/outreach/config"
	"github.com/twystd/outreach/store"
)

var CalendlyCmd = Calendly{}

type Calendly struct {
	eventType string
	name      string
	email     string
}

func (cmd *Calendly) Name() string {
	return "calendly"
}

func (cmd *Calendly) Description() string {
	return "Manages the Calendly token and generates scheduling links"
}

func (cmd *Calendly) Usage() string {
	return "token <token> | event-types | link --event-type <event type> [--name <name>] [--email <email>]"
}

func (cmd *Calendly) Command(options *Options) *cobra.Command {
	c := &cobra.Command{
		Use:   cmd.Name(),
		Short: cmd.Description(),
	}

	token := &cobra.Command{
		Use:   "token <token>",
		Short: "Saves the Calendly personal access token (an empty token removes it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.token(c.Context(), options, args[0])
		},
	}

	eventTypes := &cobra.Command{
		Use:   "event-types",
		Short: "Lists the active Calendly event types",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.eventTypes(c.Context(), options)
		},
	}

	link := &cobra.Command{
		Use:   "link",
		Short: "Generates a single use scheduling link",
		Long: `Creates a single use Calendly scheduling link for the event type, prefilled
with the invitee's name and email. The name and email default to the contact
found by the last search. The event type may be given as its URI or its name.

Example:
  outreach calendly link --event-type "Intro call"`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.link(c.Context(), options)
		},
	}

	link.Flags().StringVar(&cmd.eventType, "event-type", cmd.eventType, "Event type name or URI")
	link.Flags().StringVar(&cmd.name, "name", cmd.name, "Invitee name")
	link.Flags().StringVar(&cmd.email, "email", cmd.email, "Invitee email")
	link.MarkFlagRequired("event-type")

	c.AddCommand(token, eventTypes, link)

	return c
}

func (cmd *Calendly) token(ctx context.Context, options *Options, token string) error {
	s, err := getStore(options)
	if err != nil {
		return err
	}

	defer s.Close()

	if err := s.SetCalendlyToken(ctx, token); err != nil {
		return err
	}

	if strings.TrimSpace(token) == "" {
		options.printf("Calendly token removed\n")
	} else {
		options.printf("Calendly token saved\n")
	}

	return nil
}

func (cmd *Calendly) eventTypes(ctx context.Context, options *Options) error {
	cfg, err := getConfig(options)
	if err != nil {
		return err
	}

	s, err := getStore(options)
	if err != nil {
		return err
	}

	defer s.Close()

	client, err := getCalendly(ctx, options, cfg, s)
	if err != nil {
		return err
	}

	user, err := client.Me(ctx)
	if err != nil {
		return err
	}

	list, err := client.EventTypes(ctx, user)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		options.printf("No active event types\n")
	}

	for _, et := range list {
		options.printf("%-32s %s\n", et.Name, et.URI)
	}

	return nil
}

func (cmd *Calendly) link(ctx context.Context, options *Options) error {
	cfg, err := getConfig(options)
	if err != nil {
		return err
	}

	s, err := getStore(options)
	if err != nil {
		return err
	}

	defer s.Close()

	name := cmd.name
	email := cmd.email

	if name == "" && email == "" {
		if match, err := s.Match(ctx); err != nil {
			return err
		} else if match != nil {
			name = match.Name
			email = match.Email
		}
	}

	link, err := schedulingLink(ctx, options, cfg, s, cmd.eventType, name, email)
	if err != nil {
		return err
	}

	options.printf("%v\n", link)

	return nil
}

// schedulingLink generates a prefilled single use link. eventType is either an event
// type URI or the name of one of the user's active event types.
func schedulingLink(ctx context.Context, options *Options, cfg *config.Config, s *store.SQLiteStore, eventType, name, email string) (string, error) {
	client, err := getCalendly(ctx, options, cfg, s)
	if err != nil {
		return "", err
	}

	uri, err := resolveEventType(ctx, client, eventType)
	if err != nil {
		return "", err
	}

	debugf(options, "creating scheduling link for %v", uri)

	return client.Generate(ctx, uri, name, email)
}

func resolveEventType(ctx context.Context, client *calendly.Client, eventType string) (string, error) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return "", fmt.Errorf("Please select an event type.")
	}

	if strings.HasPrefix(eventType, "https://") {
		return eventType, nil
	}

	user, err := client.Me(ctx)
	if err != nil {
		return "", err
	}

	list, err := client.EventTypes(ctx, user)
	if err != nil {
		return "", err
	}

	for _, et := range list {
		if strings.EqualFold(strings.TrimSpace(et.Name), eventType) {
			return et.URI, nil
		}
	}

	return "", fmt.Errorf("Unknown event type '%v'", eventType)
}
