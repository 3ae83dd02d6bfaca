package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var SheetsCmd = Sheets{}

type Sheets struct {
}

func (cmd *Sheets) Name() string {
	return "sheets"
}

func (cmd *Sheets) Description() string {
	return "Lists the worksheets that can be searched"
}

func (cmd *Sheets) Usage() string {
	return ""
}

func (cmd *Sheets) Command(options *Options) *cobra.Command {
	return &cobra.Command{
		Use:   cmd.Name(),
		Short: cmd.Description(),
		Long: `Loads the worksheet titles of every configured spreadsheet and lists the
values accepted by 'search --sheet', grouped by spreadsheet.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Execute(c.Context(), options)
		},
	}
}

func (cmd *Sheets) Execute(ctx context.Context, options *Options) error {
	cfg, err := getConfig(options)
	if err != nil {
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

	group := ""
	for _, o := range session.Directory.Options() {
		if o.Group == "" {
			options.printf("%-24s %s\n", o.Value, o.Label)
			continue
		}

		if o.Group != group {
			group = o.Group
			options.printf("\n%s\n", group)
		}

		options.printf("  %s\n", o.Value)
	}

	return nil
}
