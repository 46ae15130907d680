package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fair-research/concierge-cli/constants"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/output"
	"github.com/fair-research/concierge-cli/models"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

// Stage one or more bags to a Globus endpoint.
func Stage(c *cli.Context) error {
	if c.NArg() < 2 || c.NArg() > 3 {
		return usagef("stage takes <minids> <destination_endpoint> [path]")
	}
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return usagef("%s", err)
	}

	minids := splitMinids(c.Args().Get(0))
	if len(minids) == 0 {
		return usagef("at least one minid is required")
	}
	endpoint := strings.TrimSpace(c.Args().Get(1))
	if endpoint == "" {
		return usagef("destination endpoint is required")
	}

	req := models.StageRequest{
		Minids:              minids,
		DestinationEndpoint: endpoint,
		BagDirs:             c.Bool("bag-dirs"),
		TransferLabel:       c.String("transfer-label"),
	}
	if path := c.Args().Get(2); path != "" {
		req.DestinationPathPrefix = &path
	}

	client, err := conciergeClient(c)
	if err != nil {
		return err
	}

	console.Verbose("Staging %d bag(s) to %s", len(minids), endpoint)
	result, err := client.StageBag(c.Context, req)
	if err != nil {
		return err
	}

	if format != output.FormatText {
		return output.WriteObject(console.Stdout(), format, result.Raw)
	}
	console.Print("%s", stageReport(result))
	return nil
}

// Split a comma separated minid list. Duplicates are left for the server.
func splitMinids(arg string) []string {
	parts := lo.Map(strings.Split(arg, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Filter(parts, func(s string, _ int) bool {
		return s != ""
	})
}

func stageReport(r *models.StageResult) string {
	transferred := lo.Reduce(lo.Values(r.TransferCatalog), func(total int, files []any, _ int) int {
		return total + len(files)
	}, 0)
	dest := fmt.Sprintf(constants.GlobusWebTransfer, url.Values{
		"origin_id":   {r.DestinationEndpoint},
		"origin_path": {r.DestinationPathPrefix},
	}.Encode())
	tasks := lo.Map(r.TransferTaskIDs, func(id string, _ int) string {
		return fmt.Sprintf(constants.GlobusWebTask, id)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Files Transferred: \t%d\n", transferred)
	fmt.Fprintf(&b, "Source Endpoints: \t%d\n", len(r.TransferCatalog))
	fmt.Fprintf(&b, "Destination Path: \t%s\n", dest)
	fmt.Fprintf(&b, "Transfer Catalog: \t%s\n", r.URL)
	fmt.Fprintf(&b, "Transfer Tasks: \t%s\n", strings.Join(tasks, "\n\t\t\t"))
	fmt.Fprintf(&b, "Transfer Errors: \t%d", len(r.ErrorCatalog))
	return b.String()
}
