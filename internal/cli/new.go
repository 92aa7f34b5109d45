package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/usecase"
)

type newOptions struct {
	typ         string
	name        string
	template    string
	description string

	serviceType string
	execStart   string
	restart     string
	user        string
	workingDir  string

	onCalendar string
	persistent string
	timerUnit  string

	listen string

	edits editFlags
	write writeFlags
}

func newCmd(g *globalFlags) *cobra.Command {
	o := &newOptions{}

	c := &cobra.Command{
		Use:   "new",
		Short: "Create a unit file from flags or a template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}
			defer withLogging(g, ws)()

			u, err := buildNewUnit(ws, o)
			if err != nil {
				return err
			}

			assignments, err := o.edits.assignments()
			if err != nil {
				return err
			}
			if len(assignments) > 0 {
				s := domain.NewEditSession()
				if err := s.Load(u); err != nil {
					return err
				}
				if _, err := usecase.ApplyAssignments(s, assignments); err != nil {
					return err
				}
				u = s.Close()
			}

			return emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), ws, u, o.write.out, o.write)
		},
	}

	f := c.Flags()
	f.StringVarP(&o.name, "name", "n", "", "Unit name without extension (required)")
	f.StringVarP(&o.typ, "type", "t", "", "Unit type: service|timer|socket (defaults to the workspace default)")
	f.StringVar(&o.template, "template", "", "Start from a template id (see `unitforge templates list`)")
	f.StringVarP(&o.description, "description", "d", "", "Unit description")

	f.StringVar(&o.serviceType, "service-type", "simple", "Service Type= ("+strings.Join(domain.ServiceTypes, "|")+")")
	f.StringVar(&o.execStart, "exec-start", "", "Service ExecStart= command")
	f.StringVar(&o.restart, "restart", "no", "Service Restart= ("+strings.Join(domain.RestartPolicies, "|")+")")
	f.StringVar(&o.user, "user", "", "Service User= (defaults to the workspace default user)")
	f.StringVar(&o.workingDir, "working-dir", "", "Service WorkingDirectory=")

	f.StringVar(&o.onCalendar, "on-calendar", "", "Timer OnCalendar= schedule")
	f.StringVar(&o.persistent, "persistent", "true", "Timer Persistent= (true|false)")
	f.StringVar(&o.timerUnit, "unit", "", "Timer Unit= to activate")

	f.StringVar(&o.listen, "listen", "", "Socket ListenStream= address")

	o.edits.bind(c, "Extra option as Section.Key=Value (repeatable)", false)
	o.write.bind(c, "Output directory (defaults to the configured output_dir)")

	_ = c.MarkFlagRequired("name")
	return c
}

func buildNewUnit(ws *workspaceCtx, o *newOptions) (*domain.Unit, error) {
	if strings.TrimSpace(o.template) != "" {
		u, err := usecase.NewFromTemplate(ws.catalog).Execute(o.template, o.name)
		if err != nil {
			return nil, err
		}
		if d := strings.TrimSpace(o.description); d != "" {
			if err := usecase.CheckValue("Description", d); err != nil {
				return nil, err
			}
			if err := u.SetOption("Unit", "Description", d); err != nil {
				return nil, err
			}
		}
		return u, nil
	}

	typ := ws.cfg.Defaults.Type
	if strings.TrimSpace(o.typ) != "" {
		t, ok := domain.ParseUnitType(o.typ)
		if !ok {
			return nil, invalidFlag("type", o.typ, "service|timer|socket")
		}
		typ = t
	}

	if typ == domain.UnitService {
		if err := checkChoice("service-type", o.serviceType, domain.ServiceTypes); err != nil {
			return nil, err
		}
		if err := checkChoice("restart", o.restart, domain.RestartPolicies); err != nil {
			return nil, err
		}
	}
	if typ == domain.UnitTimer {
		if err := checkChoice("persistent", o.persistent, []string{"true", "false"}); err != nil {
			return nil, err
		}
	}

	uc := usecase.NewCreateUnit(usecase.WithDefaultUser(ws.cfg.Defaults.User))
	return uc.Execute(usecase.CreateInput{
		Type:             typ,
		Name:             o.name,
		Description:      o.description,
		ServiceType:      o.serviceType,
		ExecStart:        o.execStart,
		Restart:          o.restart,
		User:             o.user,
		WorkingDirectory: o.workingDir,
		OnCalendar:       o.onCalendar,
		Persistent:       o.persistent,
		TimerUnit:        o.timerUnit,
		ListenStream:     o.listen,
	})
}

func checkChoice(flag, value string, choices []string) error {
	if slices.Contains(choices, value) {
		return nil
	}
	return invalidFlag(flag, value, strings.Join(choices, "|"))
}

func invalidFlag(flag, value, expected string) error {
	return &domain.OpError{
		Op:   "cli.flags",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("--%s: unsupported value %q (expected %s)", flag, value, expected),
	}
}
