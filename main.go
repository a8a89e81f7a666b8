package main

import (
	"os"

	"github.com/shaharia-lab/frontbundle/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
