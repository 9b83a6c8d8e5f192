package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/PackSim/internal"
	"github.com/zhengshuai-xiao/PackSim/pkg/pack"
)

var logger = internal.GetLogger("packsim")

func Main(args []string) error {
	cli.VersionFlag = &cli.BoolFlag{
		Name: "version", Aliases: []string{"V"},
		Usage: "print version only",
	}
	app := &cli.App{
		Name:                 "packsim",
		Usage:                "Estimate content-defined dedup and chunk-aligned compression over files.",
		Version:              internal.Version(),
		Copyright:            "Apache License 2.0",
		HideHelpCommand:      true,
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Before:               setup,
		Commands: []*cli.Command{
			cmdDedup(),
			cmdGzipBlocks(),
		},
	}

	return app.Run(args)
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "loglevel",
			Usage: "log level: trace/debug/info/warn/error",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "logfile",
			Usage: "write logs to this rotating file instead of stderr",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored log output",
		},
	}
}

func setup(c *cli.Context) error {
	lvl, err := logrus.ParseLevel(c.String("loglevel"))
	if err != nil {
		return fmt.Errorf("invalid loglevel: %w", err)
	}
	internal.SetLogLevel(lvl)
	internal.SetLogID(uuid.NewString()[:8] + " ")

	if c.Bool("no-color") || !isatty.IsTerminal(os.Stderr.Fd()) {
		internal.DisableLogColor()
	}
	if name := c.String("logfile"); name != "" {
		internal.SetOutFile(name)
	}
	return nil
}

// parseMaskBits parses a mask-bits argument, either a single value like "8"
// or an inclusive range like "8-10".
func parseMaskBits(arg string) (lo, hi int, err error) {
	split := strings.SplitN(arg, "-", 2)
	lo, err = strconv.Atoi(split[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid mask bits %q: %w", arg, err)
	}
	hi = lo
	if len(split) == 2 {
		hi, err = strconv.Atoi(split[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid mask bits %q: %w", arg, err)
		}
	}
	if lo < pack.MinMaskBits || hi > pack.MaxMaskBits || hi < lo {
		return 0, 0, fmt.Errorf("%q: %w (%d-%d)", arg, internal.ErrInvalidMaskBits, pack.MinMaskBits, pack.MaxMaskBits)
	}
	return lo, hi, nil
}
