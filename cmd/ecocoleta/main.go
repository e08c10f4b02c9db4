// Package main is the EcoColeta application entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ecocoleta/internal"
	"ecocoleta/internal/app/apps"
	"ecocoleta/internal/app/cfg"
	"ecocoleta/internal/pkg/log"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	rootCmd = &cobra.Command{
		Use:           "ecocoleta",
		Short:         "EcoColeta recycling collection point registry.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	clientCmd = &cobra.Command{
		Use:   "client",
		Short: "Starts an interactive EcoColeta client.",
		Args:  cobra.NoArgs,
		RunE:  runCmd,
	}

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Starts an EcoColeta registry server.",
		Args:  cobra.NoArgs,
		RunE:  runCmd,
	}
)

func newApp(_ context.Context, cmd *cobra.Command, args []string) (apps.App, []string, error) {
	var err error
	var app apps.App
	switch cmd.Name() {
	case "client":
		app, err = apps.NewClientApp(
			cfg.HostFromEnv(),
			cfg.PortFromEnv(),
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, "new client app failed")
		}
		return app, args, nil
	case "server":
		app, err = apps.NewServerApp(
			cfg.PortFromEnv(),
			cfg.HealthPortFromEnv(),
			cfg.CredentialsFromEnv(),
			cfg.SeedFromEnv(),
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, "new server app failed")
		}
		return app, args, nil
	default:
		return nil, nil, fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := chainedCheck(
		ctx,
		envCheck,
	); err != nil {
		return errors.Wrap(err, "chained check failed")
	}
	app, args, err := newApp(ctx, cmd, args)
	if err != nil {
		return errors.Wrapf(err, "new %s app failed", cmd.Name())
	}
	return errors.Wrap(app.Run(ctx, args), "run app failed")
}

func envCheck(ctx context.Context) error {
	err := internal.ValidateEnv()
	if err != nil {
		return errors.Wrap(err, "validate env failed")
	}
	log.SetLogger(internal.LogLevel)
	return nil
}

func chainedCheck(ctx context.Context, checks ...func(context.Context) error) error {
	for _, check := range checks {
		err := check(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	err := internal.RegisterCommandFlags(rootCmd, []*internal.Flag{
		&internal.EnvFlag,
		&internal.LogLevelFlag,

		&internal.PortFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(clientCmd, []*internal.Flag{
		&internal.HostFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(serverCmd, []*internal.Flag{
		&internal.HealthPortFlag,
		&internal.AdminUserFlag,
		&internal.AdminPasswordFlag,
		&internal.SeedFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	rootCmd.AddCommand(
		clientCmd,
		serverCmd,
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
