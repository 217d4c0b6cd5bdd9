package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sitedash/sitedash/internal/client"
	"github.com/sitedash/sitedash/internal/content/store"
	"github.com/sitedash/sitedash/internal/dashboard"
	"github.com/sitedash/sitedash/internal/mirror"
	"github.com/sitedash/sitedash/pkg/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// DefaultAPI is the server the CLI talks to when --api is not given.
const DefaultAPI = "http://localhost:5000/api"

var versionString = "dev"

// globals carries the persistent flags and the filesystem used for the
// local cache and input files.
type globals struct {
	api     string
	cache   string
	timeout time.Duration
	verbose bool
	fs      afero.Fs
}

func (g *globals) store() *store.Store {
	return store.New(client.New(g.api, nil), mirror.NewFileMirror(g.fs, g.cache))
}

func (g *globals) session() *dashboard.Session {
	return dashboard.New(g.store())
}

func (g *globals) timeoutCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, g.timeout)
}

// NewRootCmd builds the command tree. fs backs the local cache and the
// files read by validate and save.
func NewRootCmd(fs afero.Fs) *cobra.Command {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	g := &globals{fs: fs}

	root := &cobra.Command{
		Use:   "sitedashctl",
		Short: "Edit the website header, navigation and footer content",
		Long: `sitedashctl reads and writes the dashboard content served by the
sitedash API. Every successful read and every save is mirrored to a local
cache file, which is used when the API cannot be reached.`,
		Version:       versionString,
		SilenceErrors: true,
		SilenceUsage:  true,
		// store warnings duplicate what the commands print, so the shared
		// logger stays at error level unless asked
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.verbose {
				logger.Init("debug")
			} else {
				logger.Init("error")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&g.api, "api", DefaultAPI, "Base URL of the dashboard API")
	root.PersistentFlags().StringVar(&g.cache, "cache", mirror.DefaultPath(), "Path of the local cache file")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 15*time.Second, "Timeout for each command")
	root.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "Log store activity at debug level")

	root.AddCommand(newGetCmd(g), newValidateCmd(g), newSaveCmd(g), newEditCmd(g))
	return root
}

// Execute runs the CLI against the real filesystem.
func Execute() error {
	return NewRootCmd(nil).Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func newPrinter(cmd *cobra.Command) *printer {
	return &printer{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
}
