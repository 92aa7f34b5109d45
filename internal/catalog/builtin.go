package catalog

import "github.com/aalvaropc/unitforge/internal/domain"

type opt = domain.Option

var installMultiUser = domain.SectionSeed{
	Name:    "Install",
	Options: []opt{{Key: "WantedBy", Value: "multi-user.target"}},
}

// builtin are the templates shipped with unitforge, in menu order.
var builtin = []domain.TemplateDefinition{
	{
		ID:          "1",
		DisplayName: "Simple Service",
		Type:        domain.UnitService,
		Sections: []domain.SectionSeed{
			{Name: "Unit", Options: []opt{
				{Key: "Description", Value: "Simple Background Service"},
				{Key: "After", Value: "network.target"},
			}},
			{Name: "Service", Options: []opt{
				{Key: "Type", Value: "simple"},
				{Key: "ExecStart", Value: "/path/to/your/command"},
				{Key: "Restart", Value: "on-failure"},
				{Key: "User", Value: "nobody"},
				{Key: "WorkingDirectory", Value: "/tmp"},
			}},
			installMultiUser,
		},
	},
	{
		ID:          "2",
		DisplayName: "One-shot Service",
		Type:        domain.UnitService,
		Sections: []domain.SectionSeed{
			{Name: "Unit", Options: []opt{
				{Key: "Description", Value: "One-shot Task"},
				{Key: "After", Value: "network.target"},
			}},
			{Name: "Service", Options: []opt{
				{Key: "Type", Value: "oneshot"},
				{Key: "ExecStart", Value: "/path/to/your/script.sh"},
				{Key: "RemainAfterExit", Value: "yes"},
				{Key: "User", Value: "root"},
			}},
			installMultiUser,
		},
	},
	{
		ID:          "3",
		DisplayName: "Web Application Service",
		Type:        domain.UnitService,
		Sections: []domain.SectionSeed{
			{Name: "Unit", Options: []opt{
				{Key: "Description", Value: "Web Application"},
				{Key: "After", Value: "network.target"},
			}},
			{Name: "Service", Options: []opt{
				{Key: "Type", Value: "simple"},
				{Key: "ExecStart", Value: "/usr/bin/node /var/www/app/server.js"},
				{Key: "Restart", Value: "always"},
				{Key: "RestartSec", Value: "10"},
				{Key: "User", Value: "www-data"},
				{Key: "WorkingDirectory", Value: "/var/www/app"},
				{Key: "Environment", Value: "NODE_ENV=production"},
			}},
			installMultiUser,
		},
	},
	{
		ID:          "4",
		DisplayName: "VPN Client Service",
		Type:        domain.UnitService,
		Sections: []domain.SectionSeed{
			{Name: "Unit", Options: []opt{
				{Key: "Description", Value: "VPN Client Connection"},
				{Key: "After", Value: "network-online.target"},
				{Key: "Wants", Value: "network-online.target"},
			}},
			{Name: "Service", Options: []opt{
				{Key: "Type", Value: "simple"},
				{Key: "ExecStart", Value: "/usr/sbin/openvpn --config /etc/openvpn/client.conf"},
				{Key: "Restart", Value: "on-failure"},
				{Key: "RestartSec", Value: "5"},
				{Key: "User", Value: "root"},
			}},
			installMultiUser,
		},
	},
	{
		ID:          "5",
		DisplayName: "Periodic Task Timer",
		Type:        domain.UnitTimer,
		Sections: []domain.SectionSeed{
			{Name: "Unit", Options: []opt{
				{Key: "Description", Value: "Periodic Task Timer"},
			}},
			{Name: "Timer", Options: []opt{
				{Key: "OnCalendar", Value: "daily"},
				{Key: "Persistent", Value: "true"},
				{Key: "Unit", Value: "periodic-task.service"},
			}},
			{Name: "Install", Options: []opt{
				{Key: "WantedBy", Value: "timers.target"},
			}},
		},
	},
}
