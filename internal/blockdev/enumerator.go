package blockdev

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"driveshift/internal/logging"
)

// Executor abstracts command execution so tests can inject canned output.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.Output()
}

// Enumerator produces BlockDevice snapshots from lsblk and blkid.
type Enumerator struct {
	exec   Executor
	logger *slog.Logger
}

// NewEnumerator constructs an Enumerator backed by os/exec.
func NewEnumerator(logger *slog.Logger) *Enumerator {
	return NewEnumeratorWithExecutor(logger, commandExecutor{})
}

// NewEnumeratorWithExecutor allows injecting a custom executor for testing.
func NewEnumeratorWithExecutor(logger *slog.Logger, exec Executor) *Enumerator {
	if exec == nil {
		exec = commandExecutor{}
	}
	return &Enumerator{
		exec:   exec,
		logger: logging.NewComponentLogger(logger, "blockdev"),
	}
}

// lsblk JSON schema; sizes are numeric with --bytes but some builds emit
// strings, so json.Number covers both.
type lsblkOutput struct {
	Blockdevices []lsblkDevice `json:"blockdevices"`
}

type lsblkDevice struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Size     json.Number   `json:"size"`
	Type     string        `json:"type"`
	FSType   string        `json:"fstype"`
	UUID     string        `json:"uuid"`
	Label    string        `json:"label"`
	Model    string        `json:"model"`
	RM       bool          `json:"rm"`
	Children []lsblkDevice `json:"children"`
}

// Snapshot enumerates all disks and their partitions. Partitions appear in
// lsblk order, which follows on-disk ordering; mapping indices depend on this.
func (e *Enumerator) Snapshot(ctx context.Context) ([]BlockDevice, error) {
	out, err := e.exec.Run(ctx, "lsblk", []string{
		"--bytes", "--json",
		"--output", "NAME,PATH,SIZE,TYPE,FSTYPE,UUID,LABEL,MODEL,RM",
	})
	if err != nil {
		return nil, fmt.Errorf("run lsblk: %w", err)
	}

	devices, err := parseLsblk(out)
	if err != nil {
		return nil, err
	}

	e.backfillUUIDs(ctx, devices)

	e.logger.Debug("enumerated block devices", logging.Int("disks", len(devices)))
	return devices, nil
}

// Disk returns the snapshot entry for a single disk path.
func (e *Enumerator) Disk(ctx context.Context, path string) (BlockDevice, error) {
	devices, err := e.Snapshot(ctx)
	if err != nil {
		return BlockDevice{}, err
	}
	for _, dev := range devices {
		if dev.Path == path {
			return dev, nil
		}
	}
	return BlockDevice{}, fmt.Errorf("no disk found at %s", path)
}

func parseLsblk(out []byte) ([]BlockDevice, error) {
	var parsed lsblkOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parse lsblk output: %w", err)
	}

	devices := make([]BlockDevice, 0, len(parsed.Blockdevices))
	for _, raw := range parsed.Blockdevices {
		if raw.Type != "disk" {
			continue
		}
		dev := BlockDevice{
			Name:      raw.Name,
			Path:      devicePath(raw),
			SizeBytes: parseSize(raw.Size),
			Model:     strings.TrimSpace(raw.Model),
			Removable: raw.RM,
		}
		for _, child := range raw.Children {
			if child.Type != "part" {
				continue
			}
			dev.Partitions = append(dev.Partitions, Partition{
				Name:       child.Name,
				Path:       devicePath(child),
				SizeBytes:  parseSize(child.Size),
				Filesystem: ParseFilesystemType(child.FSType),
				UUID:       strings.TrimSpace(child.UUID),
				Label:      strings.TrimSpace(child.Label),
			})
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

func devicePath(raw lsblkDevice) string {
	if strings.TrimSpace(raw.Path) != "" {
		return raw.Path
	}
	return "/dev/" + raw.Name
}

func parseSize(n json.Number) uint64 {
	if n == "" {
		return 0
	}
	value, err := n.Int64()
	if err != nil || value < 0 {
		return 0
	}
	return uint64(value)
}

// backfillUUIDs fills partition UUIDs that lsblk left empty using blkid's
// export output. Best-effort: blkid failures leave UUIDs absent, which the
// planner treats as "no fstab rewrite for this entry".
func (e *Enumerator) backfillUUIDs(ctx context.Context, devices []BlockDevice) {
	missing := false
	for _, dev := range devices {
		for _, part := range dev.Partitions {
			if part.UUID == "" && part.Filesystem != FSUnknown {
				missing = true
			}
		}
	}
	if !missing {
		return
	}

	out, err := e.exec.Run(ctx, "blkid", []string{"-o", "export"})
	if err != nil {
		e.logger.Debug("blkid unavailable, leaving UUIDs unfilled", logging.Error(err))
		return
	}

	byDevice := parseBlkidExport(out)
	for di := range devices {
		for pi := range devices[di].Partitions {
			part := &devices[di].Partitions[pi]
			info, ok := byDevice[part.Path]
			if !ok {
				continue
			}
			if part.UUID == "" {
				part.UUID = info.uuid
			}
			if part.Label == "" {
				part.Label = info.label
			}
			if part.Filesystem == FSUnknown && info.fstype != "" {
				part.Filesystem = ParseFilesystemType(info.fstype)
			}
		}
	}
}

type blkidInfo struct {
	uuid   string
	label  string
	fstype string
}

// parseBlkidExport reads `blkid -o export` stanzas: KEY=VALUE lines per
// device, separated by blank lines.
func parseBlkidExport(out []byte) map[string]blkidInfo {
	result := make(map[string]blkidInfo)
	var device string
	var current blkidInfo

	flush := func() {
		if device != "" {
			result[device] = current
		}
		device = ""
		current = blkidInfo{}
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "DEVNAME":
			device = value
		case "UUID":
			current.uuid = value
		case "LABEL":
			current.label = value
		case "TYPE":
			current.fstype = value
		}
	}
	flush()
	return result
}
