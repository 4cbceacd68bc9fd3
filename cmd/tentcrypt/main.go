// Command tentcrypt encrypts and decrypts files with a password.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/tentcrypt/internal/commands"
)

// version is set at build time.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := commands.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())

		os.Exit(1)
	}
}
