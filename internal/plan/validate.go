package plan

import (
	"errors"
	"fmt"
	"path"

	"driveshift/internal/blockdev"
)

// Severity classifies a validation finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is one independent validation result.
type Finding struct {
	Severity Severity
	Code     string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Severity, f.Message)
}

// ErrPlanInvalid is returned by consumers that refuse a plan with error-level
// findings.
var ErrPlanInvalid = errors.New("plan has validation errors")

// Validate runs every check and returns the findings. Checks are independent;
// a plan may collect several findings in one pass. Any error-level finding
// must block script emission.
func (p *Plan) Validate() []Finding {
	var findings []Finding

	if len(p.Entries) == 0 {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Code:     "no_partitions",
			Message:  "source drive has no partitions to map",
		})
	}

	findings = append(findings, p.validateRoot()...)
	findings = append(findings, p.validateEFI()...)
	findings = append(findings, p.validateCounts()...)
	findings = append(findings, p.validateDuplicateDests()...)
	findings = append(findings, p.validateExcludes()...)

	return findings
}

// HasErrors reports whether any finding is error-level.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (p *Plan) validateRoot() []Finding {
	if p.RootIndex < 0 {
		return []Finding{{
			Severity: SeverityError,
			Code:     "root_unset",
			Message:  "no root partition designated",
		}}
	}
	if p.RootIndex >= len(p.Entries) {
		return []Finding{{
			Severity: SeverityError,
			Code:     "root_out_of_range",
			Message:  fmt.Sprintf("root index %d does not reference a mapping entry", p.RootIndex),
		}}
	}
	entry := p.Entries[p.RootIndex]
	var findings []Finding
	if entry.Skipped() {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Code:     "root_skipped",
			Message:  fmt.Sprintf("root entry %d (%s) has no destination mapped", p.RootIndex, entry.Source.Path),
		})
	}
	if entry.Source.Filesystem == blockdev.FSSwap {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Code:     "root_swap",
			Message:  fmt.Sprintf("root entry %d (%s) is a swap partition", p.RootIndex, entry.Source.Path),
		})
	}
	return findings
}

func (p *Plan) validateEFI() []Finding {
	if p.EFIIndex < 0 {
		return nil
	}
	if p.EFIIndex >= len(p.Entries) {
		return []Finding{{
			Severity: SeverityError,
			Code:     "efi_out_of_range",
			Message:  fmt.Sprintf("EFI index %d does not reference a mapping entry", p.EFIIndex),
		}}
	}
	entry := p.Entries[p.EFIIndex]
	if entry.Skipped() {
		return []Finding{{
			Severity: SeverityError,
			Code:     "efi_skipped",
			Message:  fmt.Sprintf("EFI entry %d (%s) has no destination mapped", p.EFIIndex, entry.Source.Path),
		}}
	}
	return nil
}

func (p *Plan) validateCounts() []Finding {
	src := len(p.SourceDisk.Partitions)
	dst := len(p.DestDisk.Partitions)
	if src == dst {
		return nil
	}
	return []Finding{{
		Severity: SeverityWarning,
		Code:     "count_mismatch",
		Message:  fmt.Sprintf("source has %d partitions but destination has %d", src, dst),
	}}
}

// Two source partitions copied into the same destination filesystem would
// silently overwrite each other, so duplicates are rejected outright.
func (p *Plan) validateDuplicateDests() []Finding {
	seen := make(map[string]int, len(p.Entries))
	var findings []Finding
	for i, entry := range p.Entries {
		if entry.Skipped() {
			continue
		}
		if first, ok := seen[entry.Dest.Path]; ok {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Code:     "duplicate_destination",
				Message: fmt.Sprintf("entries %d and %d both map to %s",
					first, i, entry.Dest.Path),
			})
			continue
		}
		seen[entry.Dest.Path] = i
	}
	return findings
}

func (p *Plan) validateExcludes() []Finding {
	var findings []Finding
	for _, rule := range p.Excludes {
		if _, err := path.Match(rule.Pattern, "probe"); err != nil {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Code:     "bad_exclude",
				Message:  fmt.Sprintf("exclude pattern %q is not a valid glob", rule.Pattern),
			})
		}
	}
	return findings
}
