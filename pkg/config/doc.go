// Package config loads configuration structs from environment variables with
// optional .env file support. Each distinct struct type is parsed once per
// process and cached, so repeated Load calls from different composition points
// are cheap and consistent.
//
//	type AppConfig struct {
//	    BaseURL string `env:"BASE_URL,required"`
//	    Secret  string `env:"SESSION_SECRET,required"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil { ... }
package config
