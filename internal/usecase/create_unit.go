package usecase

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/unitforge/internal/domain"
)

// CreateInput holds the answers collected by the create wizard.
// Only the fields matching Type are used.
type CreateInput struct {
	Type        domain.UnitType
	Name        string
	Description string

	ServiceType      string
	ExecStart        string
	Restart          string
	User             string
	WorkingDirectory string

	OnCalendar string
	Persistent string
	TimerUnit  string

	ListenStream string
}

type CreateUnit struct {
	defaultUser string
}

type CreateOption func(*CreateUnit)

// WithDefaultUser sets the User= value used when the wizard leaves it blank.
func WithDefaultUser(user string) CreateOption {
	return func(uc *CreateUnit) {
		if strings.TrimSpace(user) != "" {
			uc.defaultUser = strings.TrimSpace(user)
		}
	}
}

func NewCreateUnit(opts ...CreateOption) *CreateUnit {
	uc := &CreateUnit{defaultUser: "root"}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute builds a new unit from wizard answers. Blank optional answers are
// kept as empty values so they can be filled in later from the section editor.
func (uc *CreateUnit) Execute(in CreateInput) (*domain.Unit, error) {
	u := domain.NewUnit(strings.TrimSpace(in.Name), in.Type)
	if err := u.Validate(); err != nil {
		return nil, err
	}

	set := func(section, key, value string) error {
		value = strings.TrimSpace(value)
		if err := CheckValue(key, value); err != nil {
			return err
		}
		return u.SetOption(section, key, value)
	}

	if err := set("Unit", "Description", in.Description); err != nil {
		return nil, err
	}

	var err error
	switch in.Type {
	case domain.UnitService:
		user := strings.TrimSpace(in.User)
		if user == "" {
			user = uc.defaultUser
		}
		err = firstErr(
			set("Service", "Type", in.ServiceType),
			set("Service", "ExecStart", in.ExecStart),
			set("Service", "Restart", in.Restart),
			set("Service", "User", user),
			set("Service", "WorkingDirectory", in.WorkingDirectory),
		)
	case domain.UnitTimer:
		err = firstErr(
			set("Timer", "OnCalendar", in.OnCalendar),
			set("Timer", "Persistent", in.Persistent),
			set("Timer", "Unit", in.TimerUnit),
		)
	case domain.UnitSocket:
		err = set("Socket", "ListenStream", in.ListenStream)
	default:
		err = fmt.Errorf("unsupported unit type %q", in.Type)
	}
	if err != nil {
		return nil, err
	}

	return u, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
