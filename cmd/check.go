package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"laralint.dev/pkg/laralint/internal/controller"
	"laralint.dev/pkg/laralint/internal/domain"
	m "laralint.dev/pkg/laralint/internal/model"
)

var checkParallelFlag int
var checkTimeoutFlag time.Duration
var checkFormatFlag string
var checkShardFlag string
var checkWatchFlag bool

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check a codebase against the convention rules",
		Long:  checkLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			shardIndex, totalShards := parseShardFlag(checkShardFlag)

			format, err := controller.ParseFormat(viper.GetString(formatConfigKey))
			if err != nil {
				return err
			}

			checkArgs := domain.CheckArgs{
				Paths:       parsePaths(args),
				Exclude:     viper.GetStringSlice(excludeConfigKey),
				Rules:       ruleConfigFromViper(),
				Format:      format,
				Threads:     viper.GetInt(checkParallelConfigKey),
				Timeout:     viper.GetDuration(checkTimeoutConfigKey),
				Reports:     m.Path(viper.GetString(outputFlagName)),
				ShardIndex:  shardIndex,
				TotalShards: totalShards,
			}

			if checkWatchFlag {
				return workflow.Watch(cmd.Context(), checkArgs)
			}

			return workflow.Check(cmd.Context(), checkArgs)
		},
	}

	configureCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func configureCheckFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&checkParallelFlag, checkParallelFlagName, "p", viper.GetInt(checkParallelConfigKey), "number of parallel workers")
	bindFlagToConfig(cmd.Flags().Lookup(checkParallelFlagName), checkParallelConfigKey)

	cmd.Flags().DurationVar(&checkTimeoutFlag, checkTimeoutFlagName, viper.GetDuration(checkTimeoutConfigKey), "process-wide analysis timeout (0 disables)")
	bindFlagToConfig(cmd.Flags().Lookup(checkTimeoutFlagName), checkTimeoutConfigKey)

	cmd.Flags().StringVarP(&checkFormatFlag, formatFlagName, "f", viper.GetString(formatConfigKey), "output format: text or json")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), formatConfigKey)

	cmd.Flags().StringVarP(&checkShardFlag, "shard", "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
	cmd.Flags().BoolVarP(&checkWatchFlag, "watch", "w", false, "re-run checks when files change")
}

func ruleConfigFromViper() domain.RuleConfig {
	return domain.RuleConfig{
		Enabled:  viper.GetStringSlice(rulesEnabledConfigKey),
		Disabled: viper.GetStringSlice(rulesDisabledConfigKey),
		Severity: viper.GetStringMapString(rulesSeverityConfigKey),
	}
}

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
