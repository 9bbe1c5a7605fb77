/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, "tls-key"},
		{"key without cert", func(c *Config) { c.tlsKey = "key.pem" }, "tls-cert"},
		{"port zero", func(c *Config) { c.port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.port = 65536 }, "invalid port"},
		{"no categories", func(c *Config) { c.categories = 0 }, "category count"},
		{"no clues", func(c *Config) { c.clues = 0 }, "clue count"},
		{"catalog smaller than board", func(c *Config) { c.catalogSize = 1 }, "catalog size"},
		{"zero fetch timeout", func(c *Config) { c.fetchTimeout = 0 }, "fetch timeout"},
		{"empty api url", func(c *Config) { c.apiURL = "" }, "api url"},
		{"api url without host", func(c *Config) { c.apiURL = "/api" }, "api url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Fatalf("validate() = %v, want nil", err)
			case tt.wantErr != "" && err == nil:
				t.Fatalf("validate() = nil, want error containing %q", tt.wantErr)
			case tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr):
				t.Fatalf("validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestScheme(t *testing.T) {
	cfg := newTestConfig()
	if got := cfg.scheme(); got != "http" {
		t.Errorf("scheme() = %q, want http", got)
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if got := cfg.scheme(); got != "https" {
		t.Errorf("scheme() = %q, want https", got)
	}
}

func newTestFlags(cfg *Config) (*viper.Viper, *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix("JEOPARDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntVar(&cfg.categories, "categories", 6, "")
	fs.DurationVar(&cfg.fetchTimeout, "fetch-timeout", 10*time.Second, "")
	fs.StringVar(&cfg.apiURL, "api-url", defaultAPIURL, "")

	return v, fs
}

func TestBindEnv(t *testing.T) {
	t.Setenv("JEOPARDY_CATEGORIES", "3")
	t.Setenv("JEOPARDY_FETCH_TIMEOUT", "2s")

	cfg := &Config{}
	v, fs := newTestFlags(cfg)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	bindEnv(v, fs)

	if cfg.categories != 3 {
		t.Errorf("categories = %d, want 3 from environment", cfg.categories)
	}
	if cfg.fetchTimeout != 2*time.Second {
		t.Errorf("fetchTimeout = %s, want 2s from environment", cfg.fetchTimeout)
	}
	if cfg.apiURL != defaultAPIURL {
		t.Errorf("apiURL = %q, want default", cfg.apiURL)
	}
}

func TestBindEnvFlagWins(t *testing.T) {
	t.Setenv("JEOPARDY_CATEGORIES", "3")

	cfg := &Config{}
	v, fs := newTestFlags(cfg)
	if err := fs.Parse([]string{"--categories", "4"}); err != nil {
		t.Fatal(err)
	}

	bindEnv(v, fs)

	if cfg.categories != 4 {
		t.Errorf("categories = %d, want 4 from the command line", cfg.categories)
	}
}

func TestNewCmd(t *testing.T) {
	cmd := newCmd(&Config{})

	play, _, err := cmd.Find([]string{"play"})
	if err != nil || play.Name() != "play" {
		t.Fatalf("play subcommand not registered: %v", err)
	}

	for _, name := range []string{"api-url", "catalog-size", "categories", "clues", "fetch-timeout", "verbose"} {
		if play.InheritedFlags().Lookup(name) == nil && cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("flag --%s is not shared with play", name)
		}
	}

	if cmd.Flags().Lookup("session_timeout") == nil {
		t.Error("underscored flag names are not normalized")
	}
}
