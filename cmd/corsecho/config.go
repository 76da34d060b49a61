package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jub0bs/rpccors"
	"github.com/spf13/viper"
)

type config struct {
	Addr            string
	Path            string
	LogLevel        string
	ShutdownTimeout time.Duration
	CORS            rpccors.Policy
}

func loadConfig(dir string) (*config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("corsecho")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("path", "/echo")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	// AutomaticEnv only affects keys viper knows of.
	v.SetDefault("cors.allow_origin", rpccors.DefaultAllowOrigin)
	v.SetDefault("cors.allow_methods", rpccors.DefaultAllowMethods)
	v.SetDefault("cors.allow_headers", rpccors.DefaultAllowHeaders)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cors := map[string]any{
		"allow_origin":  v.Get("cors.allow_origin"),
		"allow_methods": v.Get("cors.allow_methods"),
		"allow_headers": v.Get("cors.allow_headers"),
	}
	policy, err := rpccors.DecodePolicy(cors)
	if err != nil {
		return nil, err
	}
	if sub := v.Sub("cors"); sub != nil {
		// report unknown keys in the cors section
		if _, err := rpccors.DecodePolicy(sub.AllSettings()); err != nil {
			return nil, err
		}
	}

	path := "/" + strings.Trim(v.GetString("path"), "/")
	return &config{
		Addr:            v.GetString("addr"),
		Path:            path,
		LogLevel:        v.GetString("log_level"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		CORS:            policy,
	}, nil
}
