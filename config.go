/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	apiURL         string
	bind           string
	catalogSize    int
	categories     int
	clues          int
	fetchTimeout   time.Duration
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.categories < 1 {
		return fmt.Errorf("invalid category count (must be at least 1): %d", c.categories)
	}
	if c.clues < 1 {
		return fmt.Errorf("invalid clue count (must be at least 1): %d", c.clues)
	}
	if c.catalogSize < c.categories {
		return fmt.Errorf("catalog size (%d) must be at least the category count (%d)", c.catalogSize, c.categories)
	}
	if c.fetchTimeout <= 0 {
		return fmt.Errorf("invalid fetch timeout (must be positive): %s", c.fetchTimeout)
	}
	if u, err := url.Parse(c.apiURL); err != nil || u.Host == "" {
		return fmt.Errorf("invalid api url: %q", c.apiURL)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// bindEnv lets every flag in fs be set from JEOPARDY_<FLAG>, unless it was
// given on the command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("JEOPARDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "jeopardy",
		Short:         "A trivia board of random categories, served over the web or played in a terminal.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnv(v, cmd.Flags())

			if err := cfg.validate(); err != nil {
				return err
			}

			setupLogging(cfg)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()
	fs := cmd.Flags()

	normalize := func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	}
	pfs.SetNormalizeFunc(normalize)
	fs.SetNormalizeFunc(normalize)

	pfs.StringVar(&cfg.apiURL, "api-url", defaultAPIURL, "base url of the trivia api (env: JEOPARDY_API_URL)")
	pfs.IntVar(&cfg.catalogSize, "catalog-size", 100, "number of categories to sample each board from (env: JEOPARDY_CATALOG_SIZE)")
	pfs.IntVar(&cfg.categories, "categories", 6, "categories per board (env: JEOPARDY_CATEGORIES)")
	pfs.IntVar(&cfg.clues, "clues", 5, "clues per category (env: JEOPARDY_CLUES)")
	pfs.DurationVar(&cfg.fetchTimeout, "fetch-timeout", 10*time.Second, "timeout for each trivia api request (env: JEOPARDY_FETCH_TIMEOUT)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: JEOPARDY_VERBOSE)")

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: JEOPARDY_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: JEOPARDY_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: JEOPARDY_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: JEOPARDY_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle games are ended (env: JEOPARDY_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: JEOPARDY_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: JEOPARDY_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: JEOPARDY_VERSION)")

	cmd.AddCommand(newPlayCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("jeopardy v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
