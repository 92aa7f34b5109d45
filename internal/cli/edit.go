package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/unitforge/internal/unitfile"
	"github.com/aalvaropc/unitforge/internal/usecase"
)

func editCmd(g *globalFlags) *cobra.Command {
	var edits editFlags
	var wf writeFlags

	c := &cobra.Command{
		Use:   "edit FILE",
		Short: "Apply Section.Key=Value edits to an existing unit file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}
			defer withLogging(g, ws)()

			path, err := resolveUnitPath(ws, args[0])
			if err != nil {
				return err
			}

			assignments, err := edits.assignments()
			if err != nil {
				return err
			}
			if len(assignments) == 0 && !wf.toStdout {
				return errors.New("nothing to do (use --set, --unset or --stdout)")
			}

			s, err := usecase.NewLoadForEdit(ws.store).Execute(path)
			if err != nil {
				return err
			}

			results, err := usecase.ApplyAssignments(s, assignments)
			if err != nil {
				return err
			}
			printAssignmentResults(cmd.ErrOrStderr(), results)

			dir := wf.out
			if dir == "" {
				dir = filepath.Dir(path)
			}
			return emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), ws, s.Close(), dir, wf)
		},
	}

	edits.bind(c, "Set an option as Section.Key=Value (repeatable)", true)
	wf.bind(c, "Output directory (defaults to the file's directory)")
	return c
}

func showCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print the canonical rendering of a unit file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}

			path, err := resolveUnitPath(ws, args[0])
			if err != nil {
				return err
			}

			u, err := ws.store.LoadUnit(path)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(unitfile.RenderFile(u))
			return err
		},
	}
}

func checkCmd(g *globalFlags) *cobra.Command {
	var canonical bool

	c := &cobra.Command{
		Use:   "check FILE",
		Short: "Report lines that are ignored and options systemd reads differently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}
			defer withLogging(g, ws)()

			path, err := resolveUnitPath(ws, args[0])
			if err != nil {
				return err
			}

			rep, err := usecase.NewCheckUnit().Execute(path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, s := range rep.Skipped {
				fmt.Fprintf(w, "%s:%d: ignored (%s): %s\n", rep.Path, s.Line, s.Reason, s.Text)
			}
			failed := 0
			for _, f := range rep.Findings {
				if f.Warning() {
					fmt.Fprintf(w, "%s: warning: %s\n", rep.Path, f)
					continue
				}
				failed++
				fmt.Fprintf(w, "%s: %s\n", rep.Path, f)
			}
			if rep.Changed && !canonical {
				fmt.Fprintf(w, "%s: not in canonical form (use --canonical to see it)\n", rep.Path)
			}
			if canonical {
				fmt.Fprint(w, rep.Canonical)
			}

			if !rep.OK() {
				return fmt.Errorf("%s: %d ignored line(s), %d finding(s)", rep.Path, len(rep.Skipped), failed)
			}
			if !rep.Changed {
				fmt.Fprintln(w, "OK")
			}
			return nil
		},
	}

	c.Flags().BoolVar(&canonical, "canonical", false, "Print the canonical rendering after the report")
	return c
}
