package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"driveshift/internal/config"
)

// Requirement defines an external tool driveshift or its generated scripts
// rely on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the tool set for the given configuration. rsync comes
// from the config so a custom binary path is checked as configured.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "rsync", Command: cfg.Transfer.RsyncBinary, Description: "copies partition contents"},
		{Name: "lsblk", Command: "lsblk", Description: "enumerates block devices"},
		{Name: "blkid", Command: "blkid", Description: "reads filesystem UUIDs", Optional: true},
		{Name: "udevadm", Command: "udevadm", Description: "device event administration", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
