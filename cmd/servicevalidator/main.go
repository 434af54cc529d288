package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jerkytreats/servicevalidator/internal/config"
	"github.com/jerkytreats/servicevalidator/internal/logging"
	"github.com/jerkytreats/servicevalidator/internal/restart"
	"github.com/jerkytreats/servicevalidator/internal/snapshot"
	"github.com/jerkytreats/servicevalidator/internal/system"
	"github.com/jerkytreats/servicevalidator/internal/validator"
)

const loggerTitle = "Service Validator"

var errValidationFailed = errors.New("validation failed")

// newCommander builds the host commander; tests replace it.
var newCommander = func(log *logging.Logger) system.Commander {
	return system.NewExecCommander(log,
		system.WithSystemctlPath(config.GetString(config.SystemctlPathKey)),
		system.WithIPPath(config.GetString(config.IPPathKey)),
	)
}

// sleep backs settle waits and retry pauses; tests replace it.
var sleep system.Sleeper = time.Sleep

type rootOptions struct {
	configFile string
	verbose    bool
}

type runOptions struct {
	domain  string
	oldPath string
	updPath string
	keys    []string
}

func main() {
	defer logging.Sync()

	if err := newRootCmd().Execute(); err != nil {
		logging.Error("%v", err)
		logging.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "servicevalidator",
		Short:         "Validate that services absorbed an incremental configuration change",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.FirstTimeInit(&opts.configFile); err != nil {
				logging.Error("Failed to initialize configuration: %v", err)
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to the configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level and echo to the console")

	root.AddCommand(newRunCmd(opts), newListCmd(opts))
	return root
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one domain validator against an old and an updated snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd.OutOrStdout(), root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.domain, "domain", "d", "", "Validator domain (see 'list')")
	cmd.Flags().StringVar(&opts.oldPath, "old", "", "Snapshot before the change (JSON or YAML)")
	cmd.Flags().StringVar(&opts.updPath, "upd", "", "Snapshot after the change (JSON or YAML)")
	cmd.Flags().StringSliceVar(&opts.keys, "keys", nil, "Row keys touched by the change")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("upd")
	return cmd
}

func newListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List validator domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(root.verbose)
			registry := buildRegistry(newCommander(log), log)
			for _, d := range registry.Domains() {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}

func runValidation(out io.Writer, root *rootOptions, opts *runOptions) error {
	log := newLogger(root.verbose)
	defer func() { _ = log.Sync() }()

	old, err := snapshot.Load(opts.oldPath)
	if err != nil {
		return err
	}
	upd, err := snapshot.Load(opts.updPath)
	if err != nil {
		return err
	}

	registry := buildRegistry(newCommander(log), log)
	ok, err := registry.Run(validator.Domain(opts.domain), old, upd, snapshot.NewChangedKeys(opts.keys...))
	if err != nil {
		logging.Error("Validation of %s could not run: %v", opts.domain, err)
		return err
	}
	if !ok {
		log.Logf(logging.PriorityError, log.Verbose(), "Validation of %s failed", opts.domain)
		fmt.Fprintf(out, "%s: FAILED\n", opts.domain)
		return fmt.Errorf("%w: %s", errValidationFailed, opts.domain)
	}

	log.Logf(logging.PriorityNotice, log.Verbose(), "Validation of %s succeeded", opts.domain)
	fmt.Fprintf(out, "%s: OK\n", opts.domain)
	return nil
}

func newLogger(verbose bool) *logging.Logger {
	log := logging.New(loggerTitle)
	verbose = verbose || config.GetBool(config.VerboseKey)
	log.SetVerbose(verbose)
	if verbose {
		return log
	}

	if p, err := logging.ParsePriority(config.GetString(config.LogLevelKey)); err == nil {
		log.SetMinPriority(p)
	} else {
		logging.Warn("Ignoring %s: %v", config.LogLevelKey, err)
	}
	return log
}

func buildRegistry(cmd system.Commander, log *logging.Logger) *validator.Registry {
	retryPause := config.GetDuration(config.RestartRetryPauseKey)
	if retryPause <= 0 {
		retryPause = restart.DefaultRetryPause
	}
	controller := restart.NewController(cmd, log,
		restart.WithRetryPause(retryPause),
		restart.WithSleeper(sleep),
	)

	return validator.NewDefaultRegistry(validator.Deps{
		Commander: cmd,
		Restarter: controller,
		Logger:    log,
		Sleep:     sleep,
		Units: validator.Units{
			RsyslogConfig: config.GetString(config.RsyslogConfigUnitKey),
			Rsyslog:       config.GetString(config.RsyslogUnitKey),
			DHCPRelay:     config.GetString(config.DHCPRelayUnitKey),
			NTP:           config.GetString(config.NTPUnitKey),
		},
		ACLSettleWait: config.GetDuration(config.ACLSettleWaitKey),
	})
}
