package usecase

import (
	"fmt"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/infra/logger"
	"github.com/aalvaropc/unitforge/internal/ports"
)

type SaveUnit struct {
	sink ports.UnitSink
}

func NewSaveUnit(sink ports.UnitSink) *SaveUnit {
	return &SaveUnit{sink: sink}
}

// Execute writes u into dir and returns the final path.
// On failure u is left untouched so the caller can retry elsewhere.
func (uc *SaveUnit) Execute(dir string, u *domain.Unit) (string, error) {
	log := logger.WithUnit(logger.L(), u)
	path, err := uc.sink.WriteUnit(dir, u)
	if err != nil {
		log.Warn("unit.write.failed", "dir", dir, "error", err.Error())
		return "", err
	}
	log.Info("unit.write.ok", "path", path)
	return path, nil
}

// Reminders lists the systemctl commands to run after a unit is installed.
func Reminders(u *domain.Unit) []string {
	name := u.FileName()
	return []string{
		"sudo systemctl daemon-reload",
		fmt.Sprintf("sudo systemctl enable %s", name),
		fmt.Sprintf("sudo systemctl start %s", name),
	}
}
