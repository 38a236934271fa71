package app

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/config"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/daemon"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().Bool(keyDev, false, "Enable dev mode: templates from disk, fast shutdown")
	startCmd.Flags().Bool(
		"browse",
		false,
		"Enable static file browsing (for development purposes only)",
	)

	_ = viper.BindPFlag(keyDev, startCmd.Flags().Lookup(keyDev))

	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the GoAccessAdmin web service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err = logger.Init(cfg.Log); err != nil {
			return errors.Wrap(err, "failed to init logger")
		}

		d, err := daemon.New(cmd.Context(), &cfg)
		if err != nil {
			log.Error().Err(err).Msg("failed to start daemon")
			return err
		}

		return d.Start()
	},
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.ReadConfig(configDir(viper.GetString(keyConfig)))
	if err != nil {
		return cfg, err //nolint:wrapcheck
	}

	if viper.GetBool(keyDev) {
		cfg.DevMode = true
	}

	if browse, _ := cmd.Flags().GetBool("browse"); browse {
		cfg.Webserver.BrowseStatic = true
	}

	return cfg, nil
}

// configDir returns dir with a trailing separator as config.ReadConfig expects it.
func configDir(dir string) string {
	if dir == "" || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}

	return dir + string(filepath.Separator)
}
