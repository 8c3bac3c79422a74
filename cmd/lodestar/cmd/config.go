package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/lodestar/internal/config"
	"github.com/agentstation/lodestar/pkg/feeds"
)

// newConfigCommand creates the config command and its subcommands.
func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the global settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := config.Load(flagConfig)
			fmt.Printf("network_use = %s\n", s.NetworkUse)
			fmt.Printf("freshness = %d\n", s.Freshness)
			fmt.Printf("help_with_testing = %t\n", s.HelpWithTesting)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := config.Load(flagConfig)
			switch args[0] {
			case "network_use":
				fmt.Println(s.NetworkUse)
			case "freshness":
				fmt.Println(s.Freshness)
			case "help_with_testing":
				fmt.Println(s.HelpWithTesting)
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := config.Load(flagConfig)
			key, value := args[0], args[1]
			switch key {
			case "network_use":
				if !feeds.NetworkUse(value).IsValid() {
					return fmt.Errorf("unknown network level %q (expected full, minimal, or off-line)", value)
				}
				s.NetworkUse = value
			case "freshness":
				n, err := strconv.Atoi(value)
				if err != nil || n < 0 {
					return fmt.Errorf("freshness must be a non-negative number of seconds")
				}
				s.Freshness = n
			case "help_with_testing":
				b, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("help_with_testing must be true or false")
				}
				s.HelpWithTesting = b
			default:
				return fmt.Errorf("unknown setting %q", key)
			}
			return config.Save(flagConfig, s)
		},
	})

	return cmd
}
