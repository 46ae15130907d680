package cmd

import (
	"github.com/fair-research/concierge-cli/config"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/minid"
	"github.com/fair-research/concierge-cli/lib/output"
	"github.com/fair-research/concierge-cli/lib/util"
	"github.com/fair-research/concierge-cli/models"
	"github.com/urfave/cli/v2"
)

// Print the records of one or more minids.
func Info(c *cli.Context) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return usagef("at least one minid is required")
	}
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return usagef("%s", err)
	}

	var opts []minid.Option
	if httpClient != nil {
		opts = append(opts, minid.WithHTTPClient(httpClient))
	}
	resolver := minid.NewResolver(config.I.Minid.Server, config.I.RateLimiter, opts...)

	var onDone func(int)
	if len(ids) > 1 {
		p, bar := util.NewProgressBar(console.Stderr(), len(ids), "Resolving")
		defer p.Wait()
		defer func() {
			// Drop the bar if resolution stopped early.
			if !bar.Completed() {
				bar.Abort(true)
			}
		}()
		onDone = func(int) { bar.Increment() }
	}

	records, err := resolver.ResolveAll(c.Context, ids, onDone)
	if err != nil {
		return err
	}

	if format == output.FormatText {
		printRecords(ids, records)
		return nil
	}
	return output.WriteObject(console.Stdout(), format, records)
}

func printRecords(ids []string, records []models.MinidRecord) {
	for i, rec := range records {
		id := rec.Identifier()
		if id == "" {
			id = ids[i]
		}
		console.Info("%s", id)

		locations := rec.Locations()
		if len(locations) == 0 {
			console.Print("  no locations")
			continue
		}
		for _, l := range locations {
			console.Print("  %s", l)
		}
	}
}
