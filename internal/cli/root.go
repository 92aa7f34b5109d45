package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/unitforge/internal/infra/fsworkspace"
	"github.com/aalvaropc/unitforge/internal/infra/logger"
	"github.com/aalvaropc/unitforge/internal/infra/workspacefinder"
	"github.com/aalvaropc/unitforge/internal/ui/tui"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug     bool
	workspace string
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "unitforge",
		Short:        "unitforge: build and edit systemd unit files",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}

			logRoot := ws.root
			if logRoot == "" {
				wd, werr := os.Getwd()
				if werr != nil {
					wd = "."
				}
				logRoot, _ = filepath.Abs(wd)
			}

			cleanup, _ := logger.Setup(logger.Config{
				Root:  logRoot,
				Debug: g.debug,
			})
			if cleanup != nil {
				defer func() { _ = cleanup() }()
			}
			ws.logSkippedTemplates()

			deps := tui.Deps{
				WorkspaceLocator:     workspacefinder.NewFinder(),
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Catalog:              ws.catalog,
				Source:               ws.store,
				Sink:                 ws.store,
				Lister:               ws.store,
				Config:               ws.cfg,
				Logger:               logger.L(),
				Debug:                g.debug,
			}

			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable verbose logging to .unitforge/logs/unitforge.log")
	cmd.PersistentFlags().StringVarP(&g.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")

	cmd.AddCommand(
		newCmd(g),
		editCmd(g),
		showCmd(g),
		checkCmd(g),
		templatesCmd(g),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

// withLogging attaches the file logger when a workspace is in use.
// Outside a workspace nothing is logged.
func withLogging(g *globalFlags, ws *workspaceCtx) func() {
	if ws.root == "" {
		return func() {}
	}
	cleanup, err := logger.Setup(logger.Config{Root: ws.root, Debug: g.debug})
	if err != nil || cleanup == nil {
		return func() {}
	}
	ws.logSkippedTemplates()
	return func() { _ = cleanup() }
}
