// Command submap discovers subdomains of a domain by resolving candidate
// labels from a wordlist, optionally probing each hit over HTTP(S).
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/submap/submap/pkg/defaults"
	"github.com/submap/submap/pkg/duration"
	"github.com/urfave/cli/v2"
)

var versionFlagOnce sync.Once

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to an exit code.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(args)
	if err == nil {
		return defaults.ExitSuccess
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	// Flag parsing errors.
	fmt.Fprintln(stderr, err)
	return defaults.ExitUserError
}

func newApp(stdout, stderr io.Writer) *cli.App {
	// urfave/cli v2 only exposes the version flag as a package global;
	// -v is --verbose here.
	versionFlagOnce.Do(func() {
		cli.VersionFlag = &cli.BoolFlag{
			Name:    "version",
			Aliases: []string{"V"},
			Usage:   "print the version",
		}
	})

	return &cli.App{
		Name:      defaults.ToolName,
		Usage:     "Subdomain Discovery Tool",
		Version:   defaults.Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     flags(),
		// Exit codes are mapped by run.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			return scan(c, stdout, stderr)
		},
		UsageText: `submap -d example.com
   submap -d example.com -w custom_wordlist.txt -t 100
   submap -d example.com -o results.json --resolve-ip --check-http
   submap -d example.com -t 200 --timeout 10 -v`,
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "domain",
			Aliases: []string{"d"},
			Usage:   "target domain to enumerate subdomains for",
		},
		&cli.StringFlag{
			Name:    "wordlist",
			Aliases: []string{"w"},
			Usage:   "path to a wordlist file, optionally gzipped (default: built-in wordlist)",
		},
		&cli.IntFlag{
			Name:    "threads",
			Aliases: []string{"t"},
			Usage:   "number of concurrent probes",
			Value:   defaults.Concurrency,
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "per-request timeout in seconds",
			Value: int(duration.ProbeTimeout / time.Second),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file (.txt, .json, or .csv)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable verbose output",
		},
		&cli.BoolFlag{
			Name:  "resolve-ip",
			Usage: "show resolved IP addresses for found subdomains",
		},
		&cli.BoolFlag{
			Name:  "check-http",
			Usage: "check HTTP/HTTPS status of found subdomains",
		},
		&cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom User-Agent string",
		},
		&cli.StringFlag{
			Name:  "proxy",
			Usage: "proxy URL for HTTP checks (http, https, socks5)",
		},
		&cli.BoolFlag{
			Name:  "no-banner",
			Usage: "disable ASCII banner",
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Usage:   "disable colored output",
			EnvVars: []string{"SUBMAP_NO_COLOR"},
		},
		&cli.StringSliceFlag{
			Name:    "resolvers",
			Aliases: []string{"r"},
			Usage:   "DNS servers to query (default: system resolvers)",
		},
		&cli.IntFlag{
			Name:  "rate-limit",
			Usage: "maximum probes started per second (0 = unlimited)",
		},
		&cli.BoolFlag{
			Name:  "wildcard-filter",
			Usage: "drop results that match the domain's wildcard DNS records",
		},
		&cli.StringFlag{
			Name:    "metrics-addr",
			Usage:   "serve Prometheus metrics on this address (e.g. :9090)",
			EnvVars: []string{"SUBMAP_METRICS_ADDR"},
		},
		&cli.StringFlag{
			Name:    "otel-endpoint",
			Usage:   "export traces to this OTLP gRPC endpoint (host:port)",
			EnvVars: []string{"SUBMAP_OTEL_ENDPOINT"},
		},
		&cli.BoolFlag{
			Name:  "otel-insecure",
			Usage: "use a plaintext connection to the OTLP endpoint",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file; flags override its values",
		},
	}
}
