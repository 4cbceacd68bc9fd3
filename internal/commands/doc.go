// Package commands provides the command-line interface for the tentcrypt tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//
// The package handles command-line parsing, password input, configuration validation,
// and environment variable and config file binding through cobra and viper.
package commands
