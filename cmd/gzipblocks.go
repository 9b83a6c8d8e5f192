package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/PackSim/internal"
	"github.com/zhengshuai-xiao/PackSim/pkg/gzipblocks"
	"github.com/zhengshuai-xiao/PackSim/pkg/pack"
)

// Outputs of this command (and other compressed formats) are never re-compressed.
var skippedSuffixes = []string{".gz", ".zip", ".rar"}

func cmdGzipBlocks() *cli.Command {
	return &cli.Command{
		Name:      "gzipblocks",
		Action:    gzipBlocks,
		Category:  "ANALYSIS",
		Usage:     "Compress files with gzip, restarting the deflate block at every chunk boundary",
		ArgsUsage: "FILE|DIR MASK-BITS",
		Description: `
			Rebuilds each input as <input>.pack-<bits>bits.gz where the deflate
			blocks align with PACK chunk boundaries, so inputs sharing chunks share
			compressed blocks. Does not process gz/zip/rar files.

			MASK-BITS can be a range like "8-9".`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "digest",
				Value: "sha1",
				Usage: "chunk fingerprint algorithm: sha1/md5",
			},
		},
	}
}

func gzipBlocks(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowSubcommandHelp(c)
		return cli.Exit("", -1)
	}
	fileOrDir := c.Args().Get(0)

	maskBitsMin, maskBitsMax, err := parseMaskBits(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err.Error(), -1)
	}
	algo, err := pack.ParseDigestAlgo(c.String("digest"))
	if err != nil {
		return cli.Exit(err.Error(), -1)
	}

	var fileList []internal.FileEntry
	if internal.FileExists(fileOrDir) {
		size, _ := internal.GetFileSize(fileOrDir)
		fileList = []internal.FileEntry{{Path: fileOrDir, Size: size}}
	} else {
		fileList, err = internal.ListDirFilesSorted(fileOrDir, MinFileSize, MaxFileSize)
		if err != nil || len(fileList) == 0 {
			return cli.Exit(fmt.Sprintf("Could not find the file or directory %q", fileOrDir), -2)
		}
	}

	fmt.Println("\nsize-in        size-out bits     chunks avg_chunk avg_compr  ratio name")

	for _, file := range fileList {
		if hasSkippedSuffix(file.Path) {
			continue
		}

		buf, err := internal.ReadWholeFile(file.Path)
		if err != nil || len(buf) == 0 {
			logger.Warnf("failed to read %q, skipping", file.Path)
			continue
		}

		for maskBits := maskBitsMin; maskBits <= maskBitsMax; maskBits++ {
			p, err := pack.NewWithDigest(maskBits, algo)
			if err != nil {
				return cli.Exit(err.Error(), -1)
			}

			outName := fmt.Sprintf("%s.pack-%dbits.gz", file.Path, maskBits)
			chunks, err := compressToFile(p, buf, outName)
			if err != nil {
				logger.Warnf("failed to compress %q: %v", file.Path, err)
				continue
			}

			outSize, err := internal.GetFileSize(outName)
			if err != nil {
				logger.Warnf("failed to stat %q: %v", outName, err)
				continue
			}

			avgChunk, avgCompr := int64(0), int64(0)
			if chunks > 0 {
				avgChunk = int64(len(buf)) / int64(chunks)
				avgCompr = outSize / int64(chunks)
			}
			fmt.Printf("%-11s %11s %4d %10s %9s %9s %3.2f%% %s\n",
				humanize.Comma(int64(len(buf))), humanize.Comma(outSize), maskBits,
				humanize.Comma(int64(chunks)), humanize.Comma(avgChunk), humanize.Comma(avgCompr),
				float64(outSize)*100.0/float64(len(buf)), outName)
		}
	}

	return nil
}

func hasSkippedSuffix(name string) bool {
	for _, suffix := range skippedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func compressToFile(p *pack.PackChunking, buf []byte, outName string) (int, error) {
	out, err := os.Create(outName)
	if err != nil {
		return 0, err
	}

	chunks, err := gzipblocks.Compress(p, buf, out)
	if err != nil {
		out.Close()
		return 0, err
	}
	return chunks, out.Close()
}
