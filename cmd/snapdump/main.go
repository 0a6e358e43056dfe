package main

import (
	"os"

	"github.com/snapdump/snapdump/cmd/snapdump/cmds"
)

func main() {
	if err := cmds.New().Execute(); err != nil {
		os.Exit(1)
	}
}
