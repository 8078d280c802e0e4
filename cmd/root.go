package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/DullnessOutfield/ayars/config"
	"github.com/DullnessOutfield/ayars/pkg/cmd/cli"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var c = new(config.Config)
var cmdHandler = cli.NewHandler(c)

var (
	Version   = "dev-master"
	BuildTime = "undefined"
	GitHash   = "undefined"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ayars",
	Short: "Reads Kismet capture files and reports what the devices in them were doing",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		os.Exit(2)
	},
}

// Execute runs ayars and is called by main.main()
func Execute() {
	c.BuildTime = BuildTime
	c.BuildVersion = Version
	c.BuildHash = GitHash

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := RootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ayars.yml)")
	pf.String("base-path", "", "directory searched for capture files (default from pathconfig.txt or $HOME/Data)")
	pf.String("extension", "", "capture file extension (default \"kismet\")")
	pf.StringP("output", "o", "", "report format: text, json or yaml (default \"text\")")
	pf.IntP("workers", "w", 0, "number of capture files read at once (default 1)")
	pf.String("log-level", "", "log level: debug, info, warn or error (default \"info\")")
	pf.String("nats-url", "", "also publish reports to this NATS server")

	bindFlag("AYARS_BASE_PATH", "base-path")
	bindFlag("AYARS_EXTENSION", "extension")
	bindFlag("AYARS_OUTPUT", "output")
	bindFlag("AYARS_WORKERS", "workers")
	bindFlag("AYARS_LOG_LEVEL", "log-level")
	bindFlag("AYARS_NATS_URL", "nats-url")
}

func bindFlag(key, name string) {
	if err := viper.BindPFlag(key, RootCmd.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ayars") // name of config file (without extension)
		viper.AddConfigPath(absPathify("$HOME"))
	}
	viper.AutomaticEnv() // read in environment variables that match

	// Fetch settings
	viper.BindEnv("AYARS_BASE_PATH")
	viper.SetDefault("AYARS_BASE_PATH", config.DefaultBasePath())

	viper.BindEnv("AYARS_EXTENSION")
	viper.SetDefault("AYARS_EXTENSION", "kismet")

	viper.BindEnv("AYARS_WORKERS")
	viper.SetDefault("AYARS_WORKERS", 1)

	viper.BindEnv("AYARS_LOG_LEVEL")
	viper.SetDefault("AYARS_LOG_LEVEL", "info")

	viper.BindEnv("AYARS_OUTPUT")
	viper.SetDefault("AYARS_OUTPUT", "text")

	viper.BindEnv("AYARS_NATS_URL")
	viper.SetDefault("AYARS_NATS_URL", "")

	viper.BindEnv("AYARS_NATS_SUBJECT")
	viper.SetDefault("AYARS_NATS_SUBJECT", "ayars.capture")

	viper.BindEnv("AYARS_PORT")
	viper.SetDefault("AYARS_PORT", 8080)

	viper.BindEnv("AYARS_HOST")
	viper.SetDefault("AYARS_HOST", "")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Config file not read because \"%s\"\n", err)
		}
	}

	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("Could not read config because %s.", err)
	}
}

func absPathify(inPath string) string {
	if strings.HasPrefix(inPath, "$HOME") {
		inPath = config.UserHomeDir() + inPath[5:]
	}

	if strings.HasPrefix(inPath, "$") {
		end := strings.Index(inPath, string(os.PathSeparator))
		if end < 0 {
			end = len(inPath)
		}
		inPath = os.Getenv(inPath[1:end]) + inPath[end:]
	}

	if filepath.IsAbs(inPath) {
		return filepath.Clean(inPath)
	}

	p, err := filepath.Abs(inPath)
	if err == nil {
		return filepath.Clean(p)
	}
	return ""
}
