package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/markmapview/internal/config"
	"github.com/mithrel/markmapview/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// persistentOverrides maps root flags to the config keys they override.
var persistentOverrides = map[string]string{
	"theme":    "theme",
	"renderer": "renderer.command",
	"debug":    "log.debug",
}

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "markmapview",
		Short:         "Preview markmap mind maps",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			app, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	cmd.PersistentFlags().String("theme", "", "color scheme: auto, dark or light")
	cmd.PersistentFlags().String("renderer", "", "markmap command to invoke")
	cmd.PersistentFlags().Bool("debug", false, "log renderer invocations")

	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newOutlineCmd())
	cmd.AddCommand(newConfigCmd(&cfgPath))
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

// loadConfig reads config with Viper and applies flag overrides on top.
func loadConfig(cmd *cobra.Command, cfgPath string) (*viper.Viper, error) {
	v := viper.New()
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	}
	if err := config.Load(cmd.Context(), v); err != nil {
		return nil, err
	}
	applyConfigFlagOverrides(cmd, v, persistentOverrides)
	return v, nil
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
