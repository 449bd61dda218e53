package emit

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"driveshift/internal/logging"
	"driveshift/internal/plan"
)

//go:embed script.sh.tmpl
var scriptTemplate string

// skipMarker stands in for an absent destination inside the script's data
// arrays; it can never collide with a device path.
const skipMarker = "-"

// Emitter renders transfer plans into executable scripts.
type Emitter struct {
	rsyncBinary string
	logger      *slog.Logger
	tmpl        *template.Template
}

// New constructs an Emitter. rsyncBinary is baked into the generated script.
func New(rsyncBinary string, logger *slog.Logger) (*Emitter, error) {
	tmpl, err := template.New("script").Parse(scriptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse script template: %w", err)
	}
	rsyncBinary = strings.TrimSpace(rsyncBinary)
	if rsyncBinary == "" {
		rsyncBinary = "rsync"
	}
	return &Emitter{
		rsyncBinary: rsyncBinary,
		logger:      logging.NewComponentLogger(logger, "emit"),
		tmpl:        tmpl,
	}, nil
}

type scriptData struct {
	GeneratedAt    string
	PlanID         string
	SourceDiskPath string
	DestDiskPath   string

	SrcDevs  []string
	DstDevs  []string
	FsTypes  []string
	SrcUUIDs []string
	DstUUIDs []string

	RootIndex int
	EFIIndex  int

	DstDiskQ  string
	RsyncBinQ string
	RunTokenQ string
	Excludes  []string

	PlanTOMLLines []string
}

// Emit validates p and writes the transfer script to outputPath, plus a
// TOML sidecar at outputPath+".plan.toml". Error-level findings refuse
// emission with ErrPlanInvalid.
func (e *Emitter) Emit(p *plan.Plan, outputPath string) error {
	findings := p.Validate()
	if plan.HasErrors(findings) {
		var msgs []string
		for _, f := range findings {
			if f.Severity == plan.SeverityError {
				msgs = append(msgs, f.Message)
			}
		}
		return fmt.Errorf("%w: %s", plan.ErrPlanInvalid, strings.Join(msgs, "; "))
	}

	body, err := e.Render(p)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, body, 0o755); err != nil {
		return fmt.Errorf("write script %s: %w", outputPath, err)
	}
	if err := p.WriteFile(outputPath + ".plan.toml"); err != nil {
		return err
	}

	e.logger.Info("transfer script written",
		logging.String("path", outputPath),
		logging.String("plan_id", p.ID),
		logging.Int("entries", len(p.Entries)),
	)
	return nil
}

// Render produces the script body without touching the filesystem.
func (e *Emitter) Render(p *plan.Plan) ([]byte, error) {
	data, err := e.buildData(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render script: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Emitter) buildData(p *plan.Plan) (*scriptData, error) {
	data := &scriptData{
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		PlanID:         p.ID,
		SourceDiskPath: p.SourceDisk.Path,
		DestDiskPath:   p.DestDisk.Path,
		RootIndex:      p.RootIndex,
		EFIIndex:       p.EFIIndex,
		DstDiskQ:       shellQuote(p.DestDisk.Path),
		RsyncBinQ:      shellQuote(e.rsyncBinary),
		RunTokenQ:      shellQuote(runToken()),
	}

	for _, entry := range p.Entries {
		data.SrcDevs = append(data.SrcDevs, shellQuote(entry.Source.Path))
		data.FsTypes = append(data.FsTypes, shellQuote(string(entry.Source.Filesystem)))
		if entry.Skipped() {
			data.DstDevs = append(data.DstDevs, shellQuote(skipMarker))
			data.SrcUUIDs = append(data.SrcUUIDs, shellQuote(""))
			data.DstUUIDs = append(data.DstUUIDs, shellQuote(""))
			continue
		}
		data.DstDevs = append(data.DstDevs, shellQuote(entry.Dest.Path))
		// UUID rewrite only applies when both sides are known.
		srcUUID, dstUUID := entry.Source.UUID, entry.Dest.UUID
		if srcUUID == "" || dstUUID == "" {
			srcUUID, dstUUID = "", ""
		}
		data.SrcUUIDs = append(data.SrcUUIDs, shellQuote(srcUUID))
		data.DstUUIDs = append(data.DstUUIDs, shellQuote(dstUUID))
	}

	for _, rule := range p.Excludes {
		data.Excludes = append(data.Excludes, shellQuote(rule.Pattern))
	}

	tomlBody, err := p.Marshal()
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(strings.TrimRight(string(tomlBody), "\n"), "\n") {
		data.PlanTOMLLines = append(data.PlanTOMLLines, line)
	}

	return data, nil
}

// runToken distinguishes scratch directories of scripts generated from the
// same plan; the script combines it with its own PID at run time.
func runToken() string {
	return uuid.NewString()[:8]
}
