package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/infra/unitfs"
	"github.com/aalvaropc/unitforge/internal/ports"
	"github.com/aalvaropc/unitforge/internal/unitfile"
	"github.com/aalvaropc/unitforge/internal/usecase"
)

// writeFlags are the output flags shared by new and edit.
type writeFlags struct {
	out       string
	toStdout  bool
	mkdir     bool
	noClobber bool
}

func (wf *writeFlags) bind(c *cobra.Command, outHelp string) {
	f := c.Flags()
	f.StringVarP(&wf.out, "out", "o", "", outHelp)
	f.BoolVar(&wf.toStdout, "stdout", false, "Print the unit instead of writing it")
	f.BoolVar(&wf.mkdir, "mkdir", false, "Create the output directory if it does not exist")
	f.BoolVar(&wf.noClobber, "no-clobber", false, "Fail instead of replacing an existing unit file")
}

func (wf writeFlags) sink(ws *workspaceCtx) ports.UnitSink {
	if !wf.mkdir && !wf.noClobber {
		return ws.store
	}
	return unitfs.NewStore(unitfs.WithMkdir(wf.mkdir), unitfs.WithOverwrite(!wf.noClobber))
}

// emit either prints u to w or writes it into dir and prints the follow-up commands.
func emit(w, errw io.Writer, ws *workspaceCtx, u *domain.Unit, dir string, wf writeFlags) error {
	if wf.toStdout {
		_, err := w.Write(unitfile.RenderFile(u))
		return err
	}

	if dir == "" {
		dir = ws.cfg.Paths.OutputDir
	}

	path, err := usecase.NewSaveUnit(wf.sink(ws)).Execute(dir, u)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrPermission):
			fmt.Fprintln(errw, "Permission denied. Try running with sudo, or pass --out to write elsewhere.")
		case errors.Is(err, os.ErrExist):
			fmt.Fprintln(errw, "Unit file already exists. Drop --no-clobber to replace it.")
		case errors.Is(err, os.ErrNotExist):
			fmt.Fprintln(errw, "Output directory does not exist. Pass --mkdir to create it.")
		}
		return err
	}

	fmt.Fprintf(w, "Unit file written to %s\n\n", path)
	fmt.Fprintln(w, "Remember to run:")
	for _, r := range usecase.Reminders(u) {
		fmt.Fprintf(w, "  %s\n", r)
	}
	return nil
}

func printAssignmentResults(w io.Writer, results []usecase.AssignmentResult) {
	for _, r := range results {
		a := r.Assignment
		switch r.Status {
		case domain.StatusNotFound:
			fmt.Fprintf(w, "[%s] %s: not found\n", a.Section, a.Key)
		case domain.StatusRemoved:
			fmt.Fprintf(w, "[%s] %s: removed\n", a.Section, a.Key)
		}
	}
}

// editFlags collects --set and --unset values in command-line order.
type editFlags struct {
	args []editArg
}

type editArg struct {
	raw   string
	unset bool
}

// bind registers --set and, when withUnset is true, --unset on c.
func (e *editFlags) bind(c *cobra.Command, setHelp string, withUnset bool) {
	c.Flags().Var(&editFlagValue{edits: e}, "set", setHelp)
	if withUnset {
		c.Flags().Var(&editFlagValue{edits: e, unset: true}, "unset", "Remove an option given as Section.Key (repeatable)")
	}
}

// assignments parses the collected values. Later flags win over earlier ones.
func (e *editFlags) assignments() ([]usecase.Assignment, error) {
	out := make([]usecase.Assignment, 0, len(e.args))
	for _, arg := range e.args {
		parse := usecase.ParseAssignment
		if arg.unset {
			parse = usecase.ParseUnset
		}
		a, err := parse(arg.raw)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// editFlagValue is the flag value behind one of --set or --unset.
type editFlagValue struct {
	edits *editFlags
	unset bool
}

func (v *editFlagValue) String() string {
	var raw []string
	for _, arg := range v.edits.args {
		if arg.unset == v.unset {
			raw = append(raw, arg.raw)
		}
	}
	return "[" + strings.Join(raw, ",") + "]"
}

func (v *editFlagValue) Set(s string) error {
	v.edits.args = append(v.edits.args, editArg{raw: s, unset: v.unset})
	return nil
}

func (v *editFlagValue) Type() string {
	if v.unset {
		return "Section.Key"
	}
	return "Section.Key=Value"
}
