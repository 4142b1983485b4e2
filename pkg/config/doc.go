// Package config loads typed configuration from the environment.
//
// It wraps github.com/caarlos0/env/v11 for struct tag parsing and
// github.com/joho/godotenv for .env files. Each configuration type is
// parsed once per process and served from a cache afterwards:
//
//	type Config struct {
//		HTTP    httpserver.Config
//		Account account.Config
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// LoadEnv reads explicit .env files and clears the cache. Tests that set
// variables should call ResetCache before loading.
package config
