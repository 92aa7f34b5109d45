package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/infra/yamltemplate"
	"github.com/aalvaropc/unitforge/internal/unitfile"
)

func templatesCmd(g *globalFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "templates",
		Short: "Browse unit templates",
	}

	c.AddCommand(templatesListCmd(g), templatesShowCmd(g))
	return c
}

func templatesListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in and workspace templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}

			ws.warnBrokenTemplates(cmd.ErrOrStderr())

			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "TYPE")
			for _, t := range ws.catalog.List() {
				tbl.Row(t.ID, t.DisplayName, string(t.Type))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
			return err
		},
	}
}

func templatesShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID|FILE.yaml",
		Short: "Print what a template renders to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}

			var u *domain.Unit
			if hasYAMLExt(args[0]) && fileExists(args[0]) {
				def, lerr := yamltemplate.NewLoader().LoadTemplate(args[0])
				if lerr != nil {
					return lerr
				}
				u, err = def.NewUnit()
			} else {
				u, err = ws.catalog.Instantiate(args[0])
			}
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(unitfile.RenderFile(u))
			return err
		},
	}
}
