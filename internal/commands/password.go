package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/idelchi/tentcrypt/internal/config"
)

// ErrPasswordMismatch is returned when the confirmation differs from the first entry.
var ErrPasswordMismatch = errors.New("passwords do not match")

// resolvePassword fills cfg.Password from the password file or an interactive prompt
// when no password was given directly. Without a terminal, the empty password is used.
func resolvePassword(cfg *config.Config, confirm bool) error {
	switch {
	case cfg.Password != "":
		return nil
	case cfg.PasswordFile != "":
		data, err := os.ReadFile(filepath.Clean(cfg.PasswordFile))
		if err != nil {
			return fmt.Errorf("reading password file: %w", err)
		}

		cfg.Password = strings.TrimRight(string(data), "\r\n")

		return nil
	}

	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in an int

	if !term.IsTerminal(fd) {
		log.Warn("No password given and stdin is not a terminal, using the empty password")

		return nil
	}

	password, err := prompt(fd, "Password: ")
	if err != nil {
		return err
	}

	if confirm {
		again, err := prompt(fd, "Confirm password: ")
		if err != nil {
			return err
		}

		if again != password {
			return ErrPasswordMismatch
		}
	}

	if password == "" {
		log.Warn("Using the empty password")
	}

	cfg.Password = password

	return nil
}

func prompt(fd int, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)

	password, err := term.ReadPassword(fd)

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return string(password), nil
}
