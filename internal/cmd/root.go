package cmd

import (
	"errors"
	"os"
	"path/filepath"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/fulmenhq/gofulmen/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cargofree/cargo-free/internal/config"
	"github.com/cargofree/cargo-free/internal/observability"
)

// Identity of the binary. The config directory, env prefix and User-Agent
// product token are all derived from it.
const (
	BinaryName = "cargo-free"
	ConfigName = "cargo-free"
)

var (
	cfgFile string
	verbose bool

	// Version info set by main package
	versionInfo = struct {
		Version   string
		Commit    string
		BuildDate string
	}{Version: "dev", Commit: "unknown", BuildDate: "unknown"}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
	rootCmd.Version = version
}

// rootCmd checks the names given as arguments when no subcommand matches.
var rootCmd = &cobra.Command{
	Use:   BinaryName + " [flags] [NAME...]",
	Short: "Check whether crate names are free on crates.io",
	Long: `cargo-free asks the crates.io registry whether each NAME is already taken.

Each name is reported as Available, Unavailable or Unknown. Lookups that fail
(empty names, timeouts) are left out of the output unless --show-errors is set.
Use "cargo-free check NAME" for a name that collides with a subcommand.`,
	Version:       versionInfo.Version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Keep gofulmen's global telemetry quiet in CLI mode; serve installs a real system.
	if sys, err := telemetry.NewSystem(&telemetry.Config{Enabled: false}); err == nil {
		telemetry.SetGlobalSystem(sys)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/"+ConfigName+"/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	addCheckFlags(rootCmd)
}

// initConfig wires viper to defaults, the optional config file and the
// environment. Flags are bound later by the command that runs.
func initConfig() {
	observability.InitCLILogger(BinaryName, verbose)

	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir := gfconfig.GetAppConfigDir(ConfigName); dir != "" {
			v.AddConfigPath(dir)
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+ConfigName))
		}
		v.AddConfigPath("./config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = err
			return
		}
		observability.CLILogger.Debug("No config file found, using defaults and environment variables")
		return
	}
	observability.CLILogger.Debug("Using config file", zap.String("path", v.ConfigFileUsed()))
}
