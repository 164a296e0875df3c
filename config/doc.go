// Package config loads transcribekit configuration with Viper.
//
// A YAML file supplies the base values and environment variables prefixed
// with the upper-cased service name override them. A .env file found next to
// the config, or given explicitly, is loaded into the environment first with
// godotenv.
//
//	var cfg AppConfig
//	err := config.LoadConfig("transcribe", &cfg, config.WithConfigFile(path))
//
// Config structs embed ServiceConfig and expose ApplyDefaults and Validate.
package config
