package cmd

import (
	"strings"

	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/manifest"
	"github.com/fair-research/concierge-cli/lib/output"
	"github.com/fair-research/concierge-cli/models"
	"github.com/urfave/cli/v2"
)

// Create a bag from a remote file manifest.
func Create(c *cli.Context) error {
	if c.NArg() != 1 {
		return usagef("create takes exactly one remote file manifest")
	}
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return usagef("%s", err)
	}

	entries, err := manifest.ReadFile(c.Args().First())
	if err != nil {
		return usagef("%s", err)
	}
	if len(entries) == 0 {
		return usagef("remote file manifest %s is empty", c.Args().First())
	}

	req := models.BagRequest{
		RemoteFileManifest: entries,
		MinidTest:          c.Bool("minid-test"),
	}
	if name := strings.TrimSpace(c.String("bag-name")); name != "" {
		req.BagName = &name
	}
	if req.BagMetadata, err = manifest.ReadMetadata(c.String("bag-metadata")); err != nil {
		return usagef("%s", err)
	}
	if req.BagROMetadata, err = manifest.ReadMetadata(c.String("bag-ro-metadata")); err != nil {
		return usagef("%s", err)
	}
	if req.MinidMetadata, err = manifest.ReadMetadata(c.String("minid-metadata")); err != nil {
		return usagef("%s", err)
	}
	if nested := manifest.NestedFields(req.BagMetadata); len(nested) > 0 {
		console.Warning("Warning: Metadata contains complex objects (%s).", strings.Join(nested, ", "))
	}

	client, err := conciergeClient(c)
	if err != nil {
		return err
	}

	console.Verbose("Creating bag from %d manifest entries", len(entries))
	result, err := client.CreateBag(c.Context, req)
	if err != nil {
		return err
	}

	if format != output.FormatText {
		return output.WriteObject(console.Stdout(), format, result)
	}
	if m := result.Minid(); m != "" {
		console.Print("%s", m)
		return nil
	}
	return output.WriteObject(console.Stdout(), output.FormatJSON, result)
}
