package commands

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/tentcrypt/internal/config"
)

// Execute builds the command tree and runs it.
// A configuration shown with --show is not an error.
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		if errors.Is(err, cobraext.ErrExitGracefully) {
			return nil
		}

		return err
	}

	return nil
}

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(version string) *cobra.Command {
	cfg := &config.Config{}

	root := cobraext.NewDefaultRootCommand(version, readConfigFile, configureLogging)

	root.Use = "tentcrypt [flags] command [flags]"
	root.Short = "Password-based file encryption utility"
	root.Long = `A file encryption utility that derives a keystream from a password and two random salts.
Encrypted files carry everything needed to verify the password and the restored contents.`

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.BoolP("keep", "k", false, "Keep the original file after successful encryption/decryption")
	flags.Bool("overwrite", false, "Replace existing output files")
	flags.Bool("stats", false, "Print statistics after processing")
	flags.Bool("dry", false, "Show what would be processed without doing it")
	flags.Bool("preserve-timestamps", false, "Copy the modification time of the original to the output")

	flags.StringP("password", "p", "", "Password, prompted for when neither this nor --password-file is given")
	flags.String("password-file", "", "Path to a file holding the password")

	flags.Int("chunk-size", config.DefaultChunkSize, "Streaming buffer size in bytes, a multiple of 8")
	flags.String("suffix", config.DefaultSuffix, "Suffix appended to encrypted files and stripped on decryption")
	flags.String("config", "", "Path to a configuration file")

	root.AddCommand(NewEncryptCommand(cfg), NewDecryptCommand(cfg))

	return root
}

// readConfigFile merges the file named by --config, if any, beneath flags and environment variables.
func readConfigFile(_ *cobra.Command, _ []string) error {
	path := viper.GetString("config")
	if path == "" {
		return nil
	}

	viper.SetConfigFile(path)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}

func configureLogging(_ *cobra.Command, _ []string) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	switch {
	case viper.GetBool("verbose"):
		log.SetLevel(log.DebugLevel)
	case viper.GetBool("quiet"):
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	if file := viper.ConfigFileUsed(); file != "" {
		log.WithField("file", file).Debug("Loaded configuration file")
	}

	return nil
}

// preRun returns a PreRunE handler that stores positional args in cfg.Files
// and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg.Files = args

		return cobraext.Validate(cfg, cfg)
	}
}
