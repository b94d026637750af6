package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configFileName = ".mafvalidate.yaml"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persistent validation settings",
		Long: `Print the settings in effect, or read and write single keys of ~/` + configFileName + `.
Keys use dotted paths: validate.test_chrom_names, validate.workers, cache.path.`,
		Example: `  mafvalidate config
  mafvalidate config set validate.test_chrom_names true
  mafvalidate config set cache.path ~/.mafvalidate/results.duckdb
  mafvalidate config get validate.workers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Store a setting in the config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the value of one setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigGet(cmd.OutOrStdout(), args[0])
			},
		},
	)

	return cmd
}

func runConfigShow(w io.Writer) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintf(w, "# empty; settings are read from ~/%s\n", configFileName)
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return failed(fmt.Errorf("encode settings: %w", err))
	}
	_, err = w.Write(out)
	return err
}

// configValue stores booleans and integers typed so the YAML stays
// readable and viper's typed getters need no conversion.
func configValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func runConfigSet(w io.Writer, key, value string) error {
	if key == "" {
		return failed(errors.New("empty config key"))
	}
	viper.Set(key, configValue(value))

	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return failed(fmt.Errorf("locate home directory: %w", err))
		}
		path = filepath.Join(home, configFileName)
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return failed(fmt.Errorf("save %s: %w", path, err))
	}

	fmt.Fprintf(w, "%s: %v (saved to %s)\n", key, viper.Get(key), path)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		return failed(fmt.Errorf("key %q is not set", key))
	}
	fmt.Fprintln(w, viper.Get(key))
	return nil
}
