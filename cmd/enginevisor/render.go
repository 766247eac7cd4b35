package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/enginevisor/pkg/engineconfig"
	"mercator-hq/enginevisor/pkg/identity"
)

var renderFlags struct {
	identity string
	write    bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the engine configuration",
	Long: `Print the engine configuration that "run" would write.

The persisted identity is used (and created if missing) unless --identity is
given. Nothing is downloaded or launched.

Examples:
  enginevisor render
  enginevisor render --identity 00000000-0000-4000-8000-000000000000
  enginevisor render --write`,
	RunE: renderConfig,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderFlags.identity, "identity", "", "client identity to embed instead of the persisted one")
	renderCmd.Flags().BoolVar(&renderFlags.write, "write", false, "also write the config to the engine config path")
}

func renderConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id := renderFlags.identity
	if id == "" {
		id, _, err = identity.NewStore(cfg.Engine.IdentityPath()).GetOrCreate()
		if err != nil {
			return err
		}
	}

	doc := engineconfig.BuildParams(engineconfig.Params{
		Identity:   id,
		Port:       cfg.Service.Port,
		HealthPort: cfg.Service.HealthPort,
	})
	data, err := doc.Marshal()
	if err != nil {
		return err
	}

	if renderFlags.write {
		if err := engineconfig.Write(cfg.Engine.ConfigPath(), doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", cfg.Engine.ConfigPath())
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
