package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/PackSim/internal"
	"github.com/zhengshuai-xiao/PackSim/pkg/dedup"
	"github.com/zhengshuai-xiao/PackSim/pkg/pack"
)

const (
	// Files outside this size range are skipped by default.
	MinFileSize = 1000
	MaxFileSize = 4000000000
)

func cmdDedup() *cli.Command {
	return &cli.Command{
		Name:      "dedup",
		Action:    dedupEstimate,
		Category:  "ANALYSIS",
		Usage:     "Estimate dedup ratios across the files of a directory",
		ArgsUsage: "DIR MASK-BITS",
		Description: `
			Chunks every file in DIR with PACK content-defined chunking and reports,
			per file, how many bytes repeat within the file (self) and how many were
			already seen in files processed before it (global). Files are processed
			in sorted-path order; the report depends on that order by design.

			MASK-BITS selects the expected chunk size (2^bits) and can be a range:

			$ packsim dedup /data/corpus 8
			$ packsim dedup /data/corpus 8-10`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "block-size",
				Value: pack.DefaultBlockSize,
				Usage: "read buffer size in bytes; must exceed the max chunk size plus 47",
			},
			&cli.BoolFlag{
				Name:  "emit-tail",
				Usage: "emit each file's trailing chunk even when it is shorter than the max chunk size",
			},
			&cli.StringFlag{
				Name:  "digest",
				Value: "sha1",
				Usage: "chunk fingerprint algorithm: sha1/md5",
			},
			&cli.IntFlag{
				Name:  "overlaps",
				Usage: "print up to N overlapping chunk locations per file",
			},
			&cli.Int64Flag{
				Name:  "min-file-size",
				Value: MinFileSize,
				Usage: "skip files smaller than this",
			},
			&cli.Int64Flag{
				Name:  "max-file-size",
				Value: MaxFileSize,
				Usage: "skip files larger than this",
			},
		},
	}
}

func dedupEstimate(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowSubcommandHelp(c)
		return cli.Exit("", -1)
	}
	dirName := c.Args().Get(0)

	maskBits, maskBitsMax, err := parseMaskBits(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err.Error(), -1)
	}
	algo, err := pack.ParseDigestAlgo(c.String("digest"))
	if err != nil {
		return cli.Exit(err.Error(), -1)
	}

	minSize, maxSize := c.Int64("min-file-size"), c.Int64("max-file-size")
	fileList, err := internal.ListDirFilesSorted(dirName, minSize, maxSize)
	if err != nil || len(fileList) == 0 {
		return cli.Exit(fmt.Sprintf("No files in dir %q (after filtering min-max)", dirName), -2)
	}

	fmt.Printf("Directory: %s\n", dirName)

	p, err := pack.NewWithDigest(maskBits, algo)
	if err != nil {
		return cli.Exit(err.Error(), -1)
	}

	// Details relevant only to single mask-bits
	fmt.Printf("Mask bits: %s\n", humanize.Comma(int64(maskBits)))
	fmt.Printf("Average chunk size: %s (not considering the max)\n", humanize.Comma(int64(p.AvgChunkSize())))
	fmt.Printf("Chunk size range: %s - %s\n",
		humanize.Comma(int64(p.MinChunkSize())), humanize.Comma(int64(p.MaxChunkSize())))
	fmt.Printf("Processed file size range: %s - %s\n", humanize.Comma(minSize), humanize.Comma(maxSize))

	fmt.Println("\nLegend\n------")
	fmt.Println("name - original file name (no path)")
	fmt.Println("size - file size (bytes)")
	fmt.Println("avg_chunk - file size divided by chunk count (includes un-chunked trailing bytes)")
	fmt.Println("real_avg - chunk-covered bytes divided by chunk count")
	fmt.Println("chunks - number of chunks (see mask bits above)")
	fmt.Println("self_bytes - bytes of chunks repeated earlier within the same file")
	fmt.Println("glob_bytes - bytes of chunks first seen in a previous file")
	fmt.Println("dedup_ratio - (self_bytes + glob_bytes) relative to the file size")

	fmt.Println("\nserial     file_size bits avg_chunk  real_avg    chunks    self_bytes    glob_bytes dedup_ratio file_name")

	for ; maskBits <= maskBitsMax; maskBits++ {
		p, err := pack.NewWithDigest(maskBits, algo)
		if err != nil {
			return cli.Exit(err.Error(), -1)
		}
		chunker, err := pack.NewFileChunker(p, c.Int("block-size"), c.Bool("emit-tail"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("block-size %d: %v", c.Int("block-size"), err), -1)
		}

		estimator := dedup.NewEstimator()
		var index *dedup.ChunkIndex
		if c.Int("overlaps") > 0 {
			index = dedup.NewChunkIndex()
		}

		for _, file := range fileList {
			codes, err := chunker.FileChunks(file.Path)
			if err != nil {
				logger.Warnf("skipping %s: %v", file.Path, err)
				continue
			}

			res := estimator.AddFile(file.Path, file.Size, codes)
			printDedupRow(&res, maskBits)

			if index != nil {
				index.PrintOverlaps(os.Stdout, codes, c.Int("overlaps"))
				index.AddFile(file.Path, codes)
			}
		}

		totals := estimator.Totals()
		fmt.Printf("total  %13s %4d %9s %9s %9s %13s %13s %10.3f%% -\n",
			humanize.Comma(totals.Size), maskBits,
			humanize.Comma(totals.AvgChunk()), humanize.Comma(totals.RealAvgChunk()),
			humanize.Comma(totals.Chunks),
			humanize.Comma(totals.SelfBytes), humanize.Comma(totals.GlobalBytes),
			totals.DedupRatio())
	}

	return nil
}

func printDedupRow(res *dedup.FileResult, maskBits int) {
	fmt.Printf("%-6d %13s %4d %9s %9s %9s %13s %13s %10.3f%% %s\n",
		res.Serial, humanize.Comma(res.Size), maskBits,
		humanize.Comma(res.AvgChunk()), humanize.Comma(res.RealAvgChunk()),
		humanize.Comma(int64(res.Chunks)),
		humanize.Comma(res.SelfBytes), humanize.Comma(res.GlobalBytes),
		res.DedupRatio, res.Name)
}
