package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configName = ".genespan"

// configKeys lists the settings that may come from flags, env or config file.
var configKeys = []string{"output", "workers", "duckdb", "log-level"}

// initConfig reads the config file and environment, then binds cmd's flags
// so that explicitly set flags take precedence.
func (c *cli) initConfig(cmd *cobra.Command, cfgFile string) error {
	v := c.v
	v.SetDefault("workers", 1)
	v.SetDefault("log-level", "warn")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GENESPAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	for _, key := range configKeys {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", key, err)
			}
		}
	}
	return nil
}

func (c *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage genespan configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.genespan.yaml.",
		Example: `  genespan config                     # show all config
  genespan config set workers 4       # annotate with 4 workers
  genespan config get log-level       # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigShow()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigSet(args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigGet(args[0])
		},
	})

	return cmd
}

func (c *cli) runConfigShow() error {
	settings := c.v.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(c.stdout, "# No configuration set. Config file: ~/.genespan.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(c.stdout, string(out))
	return nil
}

func (c *cli) runConfigSet(key, value string) error {
	if !isConfigKey(key) {
		return &usageError{fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(configKeys, ", "))}
	}
	c.v.Set(key, value)

	// Ensure config file exists
	cfgFile := c.v.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName+".yaml")
	}

	if err := c.v.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(c.stdout, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func (c *cli) runConfigGet(key string) error {
	val := c.v.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(c.stdout, val)
	return nil
}

func isConfigKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}
