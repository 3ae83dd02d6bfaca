package commands

import (
	"github.com/spf13/cobra"
)

// VersionCmd is an initialized Version command for the main() command list
var VersionCmd = Version{}

// Version is a CLI command implementation that displays the CLI version information.
type Version struct {
}

// Returns 'version'
func (c *Version) Name() string {
	return "version"
}

// Description returns the 'version' command short form help
func (c *Version) Description() string {
	return "Displays the current version"
}

// Usage returns the string describing the additional options for the 'version' command
func (c *Version) Usage() string {
	return ""
}

func (c *Version) Command(options *Options) *cobra.Command {
	return &cobra.Command{
		Use:   c.Name(),
		Short: c.Description(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Execute(options)
		},
	}
}

// Execute prints the current 'outreach' version
func (c *Version) Execute(options *Options) error {
	options.printf("%s\n", VERSION)

	return nil
}
