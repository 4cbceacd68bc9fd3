package commands

import (
	"github.com/idelchi/tentcrypt/internal/config"
	"github.com/idelchi/tentcrypt/internal/logic"
)

// run resolves the password and hands the configuration to the processing logic.
func run(cfg *config.Config) error {
	if !cfg.Dry {
		if err := resolvePassword(cfg, !cfg.Decrypt); err != nil {
			return err
		}
	}

	return logic.Run(cfg)
}
