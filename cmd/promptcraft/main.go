// PromptCraft - an auto prompt optimizer
package main

import (
	"os"

	"github.com/HartBrook/promptcraft/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
