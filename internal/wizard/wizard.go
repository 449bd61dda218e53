package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"driveshift/internal/blockdev"
	"driveshift/internal/config"
	"driveshift/internal/emit"
	"driveshift/internal/history"
	"driveshift/internal/logging"
	"driveshift/internal/mapper"
	"driveshift/internal/plan"
)

// ErrAborted reports that the user cancelled the session. Nothing has been
// written when Run returns it.
var ErrAborted = errors.New("transfer wizard aborted")

// DeviceLister supplies the current block device inventory.
type DeviceLister interface {
	Snapshot(ctx context.Context) ([]blockdev.BlockDevice, error)
}

// RootDetector probes source partitions for a root filesystem. A nil detector
// means detection is unavailable and the user picks the root manually.
type RootDetector interface {
	DetectRoot(parts []blockdev.Partition) (int, bool)
}

// Journal records emitted scripts. history.Store satisfies it.
type Journal interface {
	Append(ctx context.Context, p *plan.Plan, scriptPath string) (*history.Record, error)
}

// Options configures a Wizard.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Devices  DeviceLister
	Detector RootDetector
	Emitter  *emit.Emitter
	Journal  Journal
	Input    io.Reader
	Output   io.Writer
	LockPath string
}

// Wizard owns one interactive transfer session.
type Wizard struct {
	cfg      *config.Config
	logger   *slog.Logger
	devices  DeviceLister
	detector RootDetector
	emitter  *emit.Emitter
	journal  Journal
	prompt   *prompter
	lock     *flock.Flock
	lockPath string
}

// New validates options and constructs a Wizard.
func New(opts Options) (*Wizard, error) {
	if opts.Config == nil {
		return nil, errors.New("wizard requires a config")
	}
	if opts.Devices == nil {
		return nil, errors.New("wizard requires a device lister")
	}
	if opts.Emitter == nil {
		return nil, errors.New("wizard requires an emitter")
	}
	if opts.Input == nil || opts.Output == nil {
		return nil, errors.New("wizard requires input and output streams")
	}

	lockPath := opts.LockPath
	if lockPath == "" {
		lockPath = filepath.Join(opts.Config.Paths.StateDir, "wizard.lock")
	}

	return &Wizard{
		cfg:      opts.Config,
		logger:   logging.NewComponentLogger(opts.Logger, "wizard"),
		devices:  opts.Devices,
		detector: opts.Detector,
		emitter:  opts.Emitter,
		journal:  opts.Journal,
		prompt:   newPrompter(opts.Input, opts.Output),
		lock:     flock.New(lockPath),
		lockPath: lockPath,
	}, nil
}

// Run executes the full session and returns the emitted script path.
func (w *Wizard) Run(ctx context.Context) (string, error) {
	if err := w.cfg.EnsureDirectories(); err != nil {
		return "", fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := w.lock.TryLock()
	if err != nil {
		return "", fmt.Errorf("acquire wizard lock: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("another transfer wizard is already running (lock %s)", w.lockPath)
	}
	defer func() { _ = w.lock.Unlock() }()

	w.logger.Info("wizard session started", logging.String("lock", w.lockPath))

	source, dest, err := w.selectDisks(ctx)
	if err != nil {
		return "", err
	}

	p := plan.New(source, dest)

	if err := w.resolveRoot(p); err != nil {
		return "", err
	}
	if err := w.resolveEFI(p); err != nil {
		return "", err
	}
	if err := w.editExcludes(p); err != nil {
		return "", err
	}
	if err := w.reviewUntilValid(p); err != nil {
		return "", err
	}

	outputPath, err := w.askOutputPath(dest)
	if err != nil {
		return "", err
	}

	proceed, err := w.prompt.confirm(true, "write transfer script to %s?", outputPath)
	if err != nil {
		return "", err
	}
	if !proceed {
		return "", ErrAborted
	}

	if err := w.emitter.Emit(p, outputPath); err != nil {
		return "", err
	}
	if w.journal != nil {
		if _, err := w.journal.Append(ctx, p, outputPath); err != nil {
			return "", fmt.Errorf("record transfer: %w", err)
		}
	}

	w.prompt.say("wrote %s (run it with --dry-run first)", outputPath)
	w.logger.Info("wizard session complete",
		logging.String("script", outputPath),
		logging.String("plan_id", p.ID),
	)
	return outputPath, nil
}

func (w *Wizard) selectDisks(ctx context.Context) (blockdev.BlockDevice, blockdev.BlockDevice, error) {
	var zero blockdev.BlockDevice

	devices, err := w.devices.Snapshot(ctx)
	if err != nil {
		return zero, zero, fmt.Errorf("enumerate devices: %w", err)
	}
	if len(devices) < 2 {
		return zero, zero, fmt.Errorf("need at least two disks, found %d", len(devices))
	}

	w.prompt.say("available disks:")
	for i, dev := range devices {
		w.prompt.say("  [%d] %s", i, dev.Describe())
	}

	srcIdx, err := w.prompt.askIndex(len(devices), "source disk")
	if err != nil {
		return zero, zero, err
	}

	var dstIdx int
	for {
		dstIdx, err = w.prompt.askIndex(len(devices), "destination disk")
		if err != nil {
			return zero, zero, err
		}
		if dstIdx != srcIdx {
			break
		}
		w.prompt.say("destination must differ from the source")
	}

	source, dest := devices[srcIdx], devices[dstIdx]
	if len(source.Partitions) == 0 {
		return zero, zero, fmt.Errorf("source disk %s has no partitions", source.Path)
	}
	if len(dest.Partitions) == 0 {
		return zero, zero, fmt.Errorf("destination disk %s has no partitions; partition it first", dest.Path)
	}

	if len(source.Partitions) != len(dest.Partitions) {
		proceed, err := w.prompt.confirm(false,
			"partition counts differ (%d source, %d destination); continue anyway?",
			len(source.Partitions), len(dest.Partitions))
		if err != nil {
			return zero, zero, err
		}
		if !proceed {
			return zero, zero, ErrAborted
		}
	}

	return source, dest, nil
}

func (w *Wizard) resolveRoot(p *plan.Plan) error {
	if w.detector != nil {
		if idx, ok := w.detector.DetectRoot(p.SourceDisk.Partitions); ok {
			part := p.SourceDisk.Partitions[idx]
			use, err := w.prompt.confirm(true, "detected root filesystem on %s; use it?", part.Path)
			if err != nil {
				return err
			}
			if use {
				return p.SetRoot(idx)
			}
		} else {
			w.prompt.say("no root filesystem detected; pick one manually")
		}
	}

	idx, err := w.prompt.askIndex(len(p.Entries), "root partition index")
	if err != nil {
		return err
	}
	return p.SetRoot(idx)
}

func (w *Wizard) resolveEFI(p *plan.Plan) error {
	if idx, ok := mapper.DetectEFI(p.SourceDisk.Partitions); ok {
		part := p.SourceDisk.Partitions[idx]
		use, err := w.prompt.confirm(true, "partition %s looks like the EFI system partition; use it?", part.Path)
		if err != nil {
			return err
		}
		if use {
			return p.SetEFI(idx)
		}
	}

	idx, err := w.prompt.askIndexOrNone(len(p.Entries), "EFI partition index")
	if err != nil {
		return err
	}
	return p.SetEFI(idx)
}

func (w *Wizard) editExcludes(p *plan.Plan) error {
	if err := p.SeedExcludes(w.cfg.Transfer.DefaultExcludes, plan.OriginDefault); err != nil {
		return fmt.Errorf("seed default excludes: %w", err)
	}
	w.prompt.say("default excludes: %s", strings.Join(w.cfg.Transfer.DefaultExcludes, " "))

	if len(w.cfg.Transfer.OptionalExcludes) > 0 {
		add, err := w.prompt.confirm(false, "also exclude caches and trash (%s)?",
			strings.Join(w.cfg.Transfer.OptionalExcludes, " "))
		if err != nil {
			return err
		}
		if add {
			if err := p.SeedExcludes(w.cfg.Transfer.OptionalExcludes, plan.OriginOptional); err != nil {
				return fmt.Errorf("seed optional excludes: %w", err)
			}
		}
	}

	for {
		pattern, err := w.prompt.ask("custom exclude pattern (empty to finish): ")
		if err != nil {
			return err
		}
		if pattern == "" {
			return nil
		}
		if err := p.AddExclude(pattern, plan.OriginCustom); err != nil {
			w.prompt.say("%v", err)
		}
	}
}

// reviewUntilValid loops over mapping review and validation until the plan has
// no error findings and any warnings are acknowledged.
func (w *Wizard) reviewUntilValid(p *plan.Plan) error {
	for {
		if err := w.reviewMappings(p); err != nil {
			return err
		}

		findings := p.Validate()
		for _, f := range findings {
			w.prompt.say("%s", f.String())
		}
		if plan.HasErrors(findings) {
			w.prompt.say("the plan has errors; adjust it before continuing")
			continue
		}
		if len(findings) > 0 {
			proceed, err := w.prompt.confirm(false, "proceed despite warnings?")
			if err != nil {
				return err
			}
			if !proceed {
				continue
			}
		}
		return nil
	}
}

func (w *Wizard) reviewMappings(p *plan.Plan) error {
	w.showPlan(p)
	for {
		answer, err := w.prompt.ask("plan> (accept, remap <i> <j>, skip <i>, root <i>, efi <i|none>): ")
		if err != nil {
			return err
		}

		fields := strings.Fields(answer)
		if len(fields) == 0 || fields[0] == "accept" || fields[0] == "a" {
			return nil
		}

		if err := w.applyPlanCommand(p, fields); err != nil {
			w.prompt.say("%v", err)
			continue
		}
		w.showPlan(p)
	}
}

func (w *Wizard) applyPlanCommand(p *plan.Plan, fields []string) error {
	switch fields[0] {
	case "remap":
		if len(fields) != 3 {
			return errors.New("usage: remap <source index> <dest partition index>")
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad source index %q", fields[1])
		}
		j, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("bad destination index %q", fields[2])
		}
		if j < 0 || j >= len(p.DestDisk.Partitions) {
			return fmt.Errorf("destination index %d out of range [0,%d)", j, len(p.DestDisk.Partitions))
		}
		return p.Remap(i, p.DestDisk.Partitions[j])
	case "skip":
		if len(fields) != 2 {
			return errors.New("usage: skip <source index>")
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad index %q", fields[1])
		}
		return p.Skip(i)
	case "root":
		if len(fields) != 2 {
			return errors.New("usage: root <source index>")
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad index %q", fields[1])
		}
		return p.SetRoot(i)
	case "efi":
		if len(fields) != 2 {
			return errors.New("usage: efi <source index|none>")
		}
		if strings.EqualFold(fields[1], "none") {
			return p.SetEFI(-1)
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad index %q", fields[1])
		}
		return p.SetEFI(i)
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (w *Wizard) showPlan(p *plan.Plan) {
	w.prompt.say("partition mapping:")
	for i, entry := range p.Entries {
		marker := ""
		if i == p.RootIndex {
			marker += " (root)"
		}
		if i == p.EFIIndex {
			marker += " (efi)"
		}
		destDesc := "(skip)"
		if !entry.Skipped() {
			destDesc = entry.Dest.Path
		}
		w.prompt.say("  [%d] %s %s %s -> %s%s",
			i, entry.Source.Path, entry.Source.Filesystem, entry.Source.HumanSize(), destDesc, marker)
	}
}

func (w *Wizard) askOutputPath(dest blockdev.BlockDevice) (string, error) {
	def := fmt.Sprintf("transfer-%s.sh", dest.Name)
	answer, err := w.prompt.ask("output path [%s]: ", def)
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = def
	}
	expanded, err := config.ExpandPath(answer)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	return expanded, nil
}
