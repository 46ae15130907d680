package cmd

import (
	"github.com/fair-research/concierge-cli/config"
	"github.com/fair-research/concierge-cli/constants"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/urfave/cli/v2"
)

// Set at build time with -ldflags "-X github.com/fair-research/concierge-cli/cmd.Version=..."
var Version = "0.3.0"

func serverFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "server",
		Usage: "Concierge API base URL",
	}
}

func outputFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "text",
		Usage:   usage,
	}
}

// Build the cbag CLI app.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "cbag",
		Usage:   "Create and stage BDBags with the Concierge service",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print debug output to stderr",
			},
			serverFlag(),
		},
		Before: func(c *cli.Context) error {
			if _, err := config.InitConfig(); err != nil {
				return cli.Exit(console.Error("Invalid configuration: %s", err), ExitUsage)
			}
			if c.Bool("verbose") {
				config.I.Verbose = true
			}
			if s := c.String("server"); s != "" {
				config.I.Server = s
			}
			console.Init(config.I.Verbose)
			console.Verbose("Using Concierge server %s", config.I.Server)
			return nil
		},
		OnUsageError: onUsageError,
		Action: run(func(c *cli.Context) error {
			if c.Args().Present() {
				return usagef("unknown command %q", c.Args().First())
			}
			return cli.ShowAppHelp(c)
		}),
		Commands: []*cli.Command{
			{
				Name:         "login",
				Usage:        "Log in with Globus (required for create and stage)",
				ArgsUsage:    "[globus]",
				Action:       run(LogIn),
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh-tokens",
						Usage: "Request refresh tokens so the login does not expire",
					},
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Log in again even if already logged in",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the login URL without opening a browser",
					},
				},
			},
			{
				Name:         "logout",
				Usage:        "Revoke saved tokens and log out",
				Action:       run(LogOut),
				OnUsageError: onUsageError,
			},
			{
				Name:         "auth",
				Usage:        "Print current authentication state",
				Action:       run(PrintAuthState),
				OnUsageError: onUsageError,
			},
			{
				Name:         "info",
				Usage:        "Get info on one or more Minids",
				ArgsUsage:    "<minid> [minid...]",
				Action:       run(Info),
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					outputFlag("Output format: text, json or yaml"),
				},
			},
			{
				Name:         "create",
				Usage:        "Create a Minid-referenced BDBag from a remote file manifest",
				ArgsUsage:    "<remote_file_manifest>",
				Action:       run(Create),
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bag-name",
						Usage: "Filename for the bag",
					},
					&cli.StringFlag{
						Name:    "bag-metadata",
						Aliases: []string{"m"},
						Usage:   "JSON file with bag-info metadata",
					},
					&cli.StringFlag{
						Name:  "bag-ro-metadata",
						Usage: "JSON file with research object metadata",
					},
					&cli.StringFlag{
						Name:  "minid-metadata",
						Usage: "JSON file with metadata for the minid",
					},
					&cli.BoolFlag{
						Name:  "minid-test",
						Usage: "Register a test minid",
					},
					serverFlag(),
					outputFlag("Output format: text (minid only), json or yaml"),
				},
			},
			{
				Name:         "stage",
				Usage:        "Stage BDBags referred to by Minids. Separate multiple minids with commas.",
				ArgsUsage:    "<minids> <destination_endpoint> [path]",
				Action:       run(Stage),
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "bag-dirs",
						Usage: "Use dirs within the bag instead of the source path",
					},
					&cli.StringFlag{
						Name:  "transfer-label",
						Value: constants.DefaultTransferLabel,
						Usage: "Label for the Globus transfer",
					},
					serverFlag(),
					outputFlag("Output format: text, json or yaml"),
				},
			},
			{
				Name:         "manifest",
				Usage:        "Build a remote file manifest from an S3 prefix",
				ArgsUsage:    "<s3://bucket/prefix>",
				Action:       run(BuildManifest),
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "region",
						Value: "us-east-1",
						Usage: "AWS region of the bucket",
					},
					&cli.StringFlag{
						Name:  "endpoint",
						Usage: "Custom S3 compatible endpoint",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Write the manifest to a file instead of stdout",
					},
				},
			},
			{
				Name:   "version",
				Usage:  "Show the current version",
				Action: run(PrintVersion),
			},
		},
	}
}
