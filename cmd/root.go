// Package cmd provides the root command and CLI setup for laralint.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"laralint.dev/pkg/laralint/internal/adapter"
	"laralint.dev/pkg/laralint/internal/controller"
	"laralint.dev/pkg/laralint/internal/domain"
	"laralint.dev/pkg/laralint/internal/domain/rules"
	m "laralint.dev/pkg/laralint/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var phpAdapter adapter.PHPFileAdapter
var reportStore adapter.ReportStore
var registry *domain.Registry
var ui controller.UI
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// logVerboseFlag switches file logging to debug level.
var logVerboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	phpAdapter = adapter.NewTreeSitterPHPAdapter()
	reportStore = adapter.NewYAMLReportStore()
	ui = controller.NewSimpleUI(rootCmd, controller.IsTTY(os.Stdout))

	registry = domain.NewRegistry()
	for _, rule := range rules.All() {
		cobra.CheckErr(registry.Register(rule))
	}

	browser := controller.NewReportBrowser(os.Stdout, registry.Get)

	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		domain.NewBuilder(fsAdapter, phpAdapter),
		domain.NewAnalyzer(),
		registry,
		browser,
	)
}

const pathsHelp = `Paths are directories scanned recursively; vendor/, node_modules/ and
.git/ are always skipped:
  laralint check .            scan the current project
  laralint check app routes   scan selected directories`

const rootLongDescription = `Laralint checks a Laravel codebase against the community's best-practice
conventions: thin controllers, no env() outside config, eager loading,
naming conventions for controllers, models and routes, and more.

` + pathsHelp

const checkLongDescription = `Run the convention checks for the given paths (default: current directory).

` + pathsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "laralint",
		Short: "Laravel conventions linter",
		Long:  rootLongDescription,
		// Execute reports errors itself so a violations exit stays silent.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for lint reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&logVerboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

	err := rootCmd.Execute()
	if err != nil {
		if !errors.Is(err, m.ErrViolationsFound) {
			rootCmd.PrintErrln("Error:", err)
		}

		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
