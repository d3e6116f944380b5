package cmd

import (
	"github.com/hatlonely/uidx/log/logger"
	"github.com/spf13/cobra"
)

// NewRoot 构造 snowflake 命令行，日志输出到 stderr，结果输出到 stdout
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "snowflake",
		Short:         "Generate and inspect 64-bit snowflake ids",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "log format: text, json")

	root.AddCommand(NewGenerateCommand())
	root.AddCommand(NewParseCommand())
	return root
}

// newLogger 命令行日志写到 cmd.ErrOrStderr()
func newLogger(cmd *cobra.Command) (logger.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:  level,
		Format: format,
		Writer: cmd.ErrOrStderr(),
	})
}
