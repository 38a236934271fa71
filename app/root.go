// Package app implements the main application commands.
package app

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "GO_ACCESS_ADMIN"

	keyConfig = "config"
	keyDev    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "go-access-admin",
	Short: "GoAccessAdmin is a web panel to manage users, user groups and permissions",
	Long: `GoAccessAdmin is a web panel to manage user accounts, user groups
and the permissions granted to them. It offers html pages and a JSON API.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(keyConfig, "./etc/", "Directory holding main.toml")

	// GO_ACCESS_ADMIN_CONFIG and GO_ACCESS_ADMIN_DEV
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	_ = viper.BindPFlag(keyConfig, rootCmd.PersistentFlags().Lookup(keyConfig))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
