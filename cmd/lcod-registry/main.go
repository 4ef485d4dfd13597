// Command lcod-registry maintains the LCOD component registry.
package main

import (
	"os"

	"github.com/lcod-team/lcod-registry/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.Execute())
}
