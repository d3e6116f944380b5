package cmd

import (
	"fmt"

	"github.com/hatlonely/uidx/cfg"
	"github.com/hatlonely/uidx/log"
	"github.com/hatlonely/uidx/log/logger"
	"github.com/hatlonely/uidx/ref"
	"github.com/hatlonely/uidx/snowflake"
	"github.com/hatlonely/uidx/uid/intgen"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// EnvPrefix 配置文件中的值可以被 SNOWFLAKE_ 开头的环境变量覆盖
const EnvPrefix = "SNOWFLAKE"

// Config generate 命令的配置文件
//
//	generator:
//	  namespace: github.com/hatlonely/uidx/uid/intgen
//	  type: SnowflakeGenerator
//	  options:
//	    instance: 3
//	logger:
//	  namespace: github.com/hatlonely/uidx/log/logger
//	  type: SLog
type Config struct {
	Generator ref.TypeOptions  `cfg:"generator"`
	Logger    *ref.TypeOptions `cfg:"logger"`
}

func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate snowflake ids, one per line",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	cmd.Flags().StringP("config", "c", "", "config file (yaml, json, toml, ini, env)")
	cmd.Flags().Int64P("instance", "i", 0, "instance id 0-1023, defaults to the low bits of the host IPv4 address")
	cmd.Flags().IntP("count", "n", 1, "number of ids to generate")
	cmd.Flags().StringP("format", "f", "decimal", "output format: decimal, base2, base36, base58, base64")
	cmd.MarkFlagsMutuallyExclusive("config", "instance")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	count, _ := cmd.Flags().GetInt("count")
	format, _ := cmd.Flags().GetString("format")

	if count < 1 {
		return errors.Errorf("count must be positive, got %d", count)
	}
	encode, err := encoder(format)
	if err != nil {
		return err
	}

	l, generator, err := newGenerator(cmd, configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := 0; i < count; i++ {
		raw, err := generator.Generate()
		if err != nil {
			l.Error("generate failed", "generated", i, "error", err.Error())
			return errors.WithMessage(err, "generate failed")
		}
		id, err := snowflake.ParseID(uint64(raw))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, encode(id))
	}

	l.Debug("generate done", "count", count, "format", format)
	return nil
}

func newGenerator(cmd *cobra.Command, configPath string) (logger.Logger, intgen.IntGenerator, error) {
	l, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}

	if configPath == "" {
		options := &intgen.SnowflakeOptions{}
		if cmd.Flags().Changed("instance") {
			instance, _ := cmd.Flags().GetInt64("instance")
			options.Instance = &instance
		}
		generator, err := intgen.NewSnowflakeGeneratorWithOptions(options)
		if err != nil {
			return nil, nil, err
		}
		l.Debug("generator created", "instance", generator.Instance(), "epoch", generator.Epoch().String())
		return l, generator, nil
	}

	var config Config
	if err := cfg.LoadWithEnv(configPath, EnvPrefix, &config); err != nil {
		return nil, nil, errors.WithMessagef(err, "failed to load %s", configPath)
	}
	if config.Logger != nil {
		if l, err = log.NewLoggerWithOptions(config.Logger); err != nil {
			return nil, nil, errors.WithMessage(err, "failed to create logger")
		}
	}
	if config.Generator.Type == "" {
		return nil, nil, errors.Errorf("%s: generator.type is required", configPath)
	}

	generator, err := intgen.NewIntGeneratorWithOptions(&config.Generator)
	if err != nil {
		return nil, nil, err
	}
	l.Debug("generator created", "type", config.Generator.Type)
	return l, generator, nil
}
