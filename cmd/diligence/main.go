// Command diligence is the due-diligence document retrieval and audit CLI.
package main

import (
	"os"

	"github.com/probity-labs/diligence-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
