package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	envFile   string
	logLevel  string
	logFormat string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:          "zoneplanner",
		Short:        "Downtown zoning scenario explorer",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file seeding the environment")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (overrides ZONEPLANNER_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: tint, text or json (overrides ZONEPLANNER_LOG_FORMAT)")

	rootCmd.AddCommand(validateCmd(&flags))
	rootCmd.AddCommand(reportCmd(&flags))
	rootCmd.AddCommand(sceneCmd(&flags))
	rootCmd.AddCommand(serveCmd(&flags))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func validateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a scenario project and the records its source returns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags, args)
			if err != nil {
				return err
			}
			return runValidate(cmd.Context(), env)
		},
	}
}

func reportCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report [project-path]",
		Short: "Load a scenario sample and print its volume totals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags, args)
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), env, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func sceneCmd(flags *globalFlags) *cobra.Command {
	var plan bool

	cmd := &cobra.Command{
		Use:   "scene [project-path]",
		Short: "Load a scenario sample and print its scene graph as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags, args)
			if err != nil {
				return err
			}
			return runScene(cmd.Context(), env, plan)
		},
	}

	cmd.Flags().BoolVar(&plan, "plan", false, "print the 2D plan instead of the 3D scene graph")
	return cmd
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port    int
		preload bool
	)

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the scenario API server for the map UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				env.cfg.Port = port
			}
			return runServe(cmd.Context(), env, preload)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port (overrides ZONEPLANNER_PORT)")
	cmd.Flags().BoolVar(&preload, "load", true, "load a sample before serving")
	return cmd
}
