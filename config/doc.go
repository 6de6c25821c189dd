// Package config loads application settings with viper and godotenv.
//
// LoadConfig resolves a config.yml and a .env file for an application,
// overlays environment variables and unmarshals the result into a struct
// with mapstructure tags. Env is a key lookup over the process
// environment with a .env file as fallback; its Lookup method satisfies
// twitter.EnvLookup so credential defaults can come from either source
// without mutating the process environment.
package config
