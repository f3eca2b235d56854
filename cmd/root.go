package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cloud66-oss/myip/utils"
	"github.com/fsnotify/fsnotify"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "myip",
	Short: "myip shows the IPv4 and IPv6 addresses of a visitor with their ISP and location",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = utils.Version
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/myip.yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().String("level", "info", "log level")
	rootCmd.PersistentFlags().String("log-format", "json", "log format: json or text")
	rootCmd.PersistentFlags().String("v4-host", "https://ipv4.myip.privex.io/", "IPv4 only geolocation endpoint")
	rootCmd.PersistentFlags().String("v6-host", "https://ipv6.myip.privex.io/", "IPv6 only geolocation endpoint")
	rootCmd.PersistentFlags().String("user-agent", "myip/"+utils.Version, "User-Agent sent to the endpoints")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("hosts.v4", rootCmd.PersistentFlags().Lookup("v4-host"))
	viper.BindPFlag("hosts.v6", rootCmd.PersistentFlags().Lookup("v6-host"))
	viper.BindPFlag("http.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))

	// The two hosts must resolve to a single address family each: the v4 host
	// with only an A record and the v6 host with only an AAAA record.
	viper.SetDefault("hosts.v4", "https://ipv4.myip.privex.io/")
	viper.SetDefault("hosts.v6", "https://ipv6.myip.privex.io/")
}

func configureLogging(_ context.Context) {
	level, err := zerolog.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		fmt.Println("invalid log level")
		os.Exit(1)
	}

	if viper.GetString("log.format") == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	zerolog.SetGlobalLevel(level)
	if level == zerolog.TraceLevel {
		log.Logger = log.With().Caller().Logger()
	}

	log.Logger = log.Logger.Level(level)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initConfig() {
	// a missing .env is fine, it only seeds the environment
	if envFile != "" {
		if err := godotenv.Load(envFile); err == nil {
			fmt.Fprintln(os.Stderr, "Using env file:", envFile)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Printf("home directory not found %s\n", err.Error())
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/app")
		viper.SetConfigName("myip")
	}

	replacer := strings.NewReplacer("-", "_", ".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix("MYIP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	ctx := context.Background()
	configureLogging(ctx)

	if dsn := viper.GetString("sentry.dsn"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Release: utils.Version}); err != nil {
			log.Warn().Err(err).Msg("failed to initialize Sentry")
		} else {
			log.Info().Msg("Sentry error tracking enabled")
		}
	}

	if err := configureProvider(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create the address provider")
	}

	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		ctx := context.Background()
		log.Info().Str("file", e.Name).Msg("reloading config")
		configureLogging(ctx)
		if err := configureProvider(ctx); err != nil {
			log.Error().Err(err).Msg("failed to recreate the address provider, keeping the old one")
		}
	})
}
