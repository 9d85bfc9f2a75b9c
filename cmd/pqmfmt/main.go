// Command pqmfmt formats Power Query M source code (spec §6.2).
package main

import (
	"os"

	"github.com/fukuyori/pqm-formatter/cmd/pqmfmt/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
