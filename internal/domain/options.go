package domain

// CommonOptions are the keys offered first when editing a section.
var CommonOptions = map[string][]string{
	"Unit":    {"Description", "After", "Requires"},
	"Service": {"Type", "ExecStart", "Restart", "User", "WorkingDirectory"},
	"Install": {"WantedBy"},
	"Timer":   {"OnCalendar", "Persistent", "Unit"},
	"Socket":  {"ListenStream"},
}

// ServiceTypes are the choices offered for Service.Type.
var ServiceTypes = []string{"simple", "forking", "oneshot", "notify", "dbus"}

// RestartPolicies are the choices offered for Service.Restart.
var RestartPolicies = []string{"no", "always", "on-success", "on-failure", "on-abnormal", "on-abort", "on-watchdog"}

// SectionsFor returns the sections a new unit of the given type usually carries.
func SectionsFor(t UnitType) []string {
	switch t {
	case UnitTimer:
		return []string{"Unit", "Timer", "Install"}
	case UnitSocket:
		return []string{"Unit", "Socket", "Install"}
	default:
		return []string{"Unit", "Service", "Install"}
	}
}

// SuggestedKeys returns the common keys of a section that the unit does not set yet.
func SuggestedKeys(u *Unit, sectionName string) []string {
	var out []string
	for _, k := range CommonOptions[sectionName] {
		if _, ok := u.Option(sectionName, k); !ok {
			out = append(out, k)
		}
	}
	return out
}
