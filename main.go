package main

import (
	"os"

	"github.com/zhengshuai-xiao/PackSim/cmd"
	"github.com/zhengshuai-xiao/PackSim/internal"
)

var logger = internal.GetLogger("packsim_main")

func main() {
	if err := cmd.Main(os.Args); err != nil {
		logger.Fatal(err)
	}
}
