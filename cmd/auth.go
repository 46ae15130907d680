package cmd

import (
	"time"

	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"
)

// Print authentication status.
func PrintAuthState(c *cli.Context) error {
	tf, err := tokenStore().Load()
	if err != nil {
		return err
	}

	if tf.Name != "" {
		console.Info("Name:  %s", tf.Name)
	}
	if tf.Email != "" {
		console.Info("Email: %s", tf.Email)
	}
	if tf.SubjectID != "" {
		console.Info("ID:    %s", tf.SubjectID)
	}

	now := time.Now()
	servers := lo.Keys(tf.Tokens)
	slices.Sort(servers)
	for _, rs := range servers {
		rec := tf.Tokens[rs]
		switch {
		case rec.ExpiresAt == 0:
			console.Print("%s: no expiry", rs)
		case !rec.Expired(now):
			console.Print("%s: expires %s", rs, rec.Expiry().Local().Format(time.RFC1123))
		case rec.RefreshToken != "":
			console.Print("%s: expired, will be refreshed", rs)
		default:
			console.ErrorPrint("%s: expired", rs)
		}
	}
	return nil
}
