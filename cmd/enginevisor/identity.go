package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/enginevisor/pkg/cli"
	"mercator-hq/enginevisor/pkg/identity"
)

var identityFlags struct {
	output string
}

type identityInfo struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

func (i identityInfo) String() string { return i.ID }

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Print the persisted client identity",
	Long: `Print the client identity, generating and saving a new one if none exists.

Examples:
  enginevisor identity
  enginevisor identity --output json`,
	RunE: showIdentity,
}

func init() {
	rootCmd.AddCommand(identityCmd)

	identityCmd.Flags().StringVarP(&identityFlags.output, "output", "o", "text", "output format (text, json)")
}

func showIdentity(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(identityFlags.output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := identity.NewStore(cfg.Engine.IdentityPath())
	id, created, err := store.GetOrCreate()
	if err != nil {
		return cli.NewCommandError("identity", err)
	}

	return cli.Print(cmd.OutOrStdout(), format, identityInfo{
		ID:      id,
		Path:    store.Path(),
		Created: created,
	})
}
