package cmd

import (
	"fmt"
	"os"

	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/manifest"
	"github.com/fair-research/concierge-cli/lib/util"
	"github.com/fair-research/concierge-cli/models"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

// Swapped out by tests.
var newS3Builder = func(c *cli.Context) (manifest.S3Builder, error) {
	client, err := manifest.NewS3Client(c.Context, c.String("region"), c.String("endpoint"))
	if err != nil {
		return manifest.S3Builder{}, err
	}
	return manifest.S3Builder{API: client, Region: c.String("region"), Endpoint: c.String("endpoint")}, nil
}

// Build a remote file manifest from the objects under an S3 prefix.
func BuildManifest(c *cli.Context) error {
	if c.NArg() != 1 {
		return usagef("manifest takes exactly one s3://bucket/prefix URI")
	}
	uri := c.Args().First()
	if _, _, err := manifest.ParseS3URI(uri); err != nil {
		return usagef("%s", err)
	}

	builder, err := newS3Builder(c)
	if err != nil {
		return err
	}
	files, err := builder.Build(c.Context, uri)
	if err != nil {
		return err
	}

	out := console.Stdout()
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	if err := manifest.Write(out, files); err != nil {
		return err
	}

	total := lo.Reduce(files, func(sum int64, f models.RemoteFile, _ int) int64 {
		return sum + f.Length
	}, 0)
	fmt.Fprintf(console.Stderr(), "Listed %d files (%s) under %s\n", len(files), util.FormatBytesSize(total), uri)
	return nil
}
