package plan

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"driveshift/internal/blockdev"
)

// ExcludeOrigin records where an exclude rule came from. Origin only affects
// presentation; execution treats all rules alike.
type ExcludeOrigin string

const (
	OriginDefault  ExcludeOrigin = "default"
	OriginOptional ExcludeOrigin = "optional"
	OriginCustom   ExcludeOrigin = "custom"
)

// ExcludeRule is a path glob excluded from the copy, relative to each source
// partition root.
type ExcludeRule struct {
	Pattern string        `toml:"pattern"`
	Origin  ExcludeOrigin `toml:"origin"`
}

// MappingEntry pairs one source partition with an optional destination.
// A nil Dest means the partition is skipped.
type MappingEntry struct {
	Source blockdev.Partition  `toml:"source"`
	Dest   *blockdev.Partition `toml:"dest,omitempty"`
}

// Skipped reports whether the entry has no destination.
func (e MappingEntry) Skipped() bool {
	return e.Dest == nil
}

// Plan is the full in-memory transfer model. Indices into Entries are stable
// and contiguous; RootIndex and EFIIndex are -1 when unset.
type Plan struct {
	ID        string    `toml:"id"`
	CreatedAt time.Time `toml:"created_at"`

	SourceDisk blockdev.BlockDevice `toml:"source_disk"`
	DestDisk   blockdev.BlockDevice `toml:"dest_disk"`

	Entries   []MappingEntry `toml:"entries"`
	RootIndex int            `toml:"root_index"`
	EFIIndex  int            `toml:"efi_index"`

	Excludes []ExcludeRule `toml:"excludes"`
}

// New builds a plan with the initial index-aligned mapping: entry i maps
// source partition i to destination partition i when one exists, else skip.
func New(source, dest blockdev.BlockDevice) *Plan {
	entries := make([]MappingEntry, len(source.Partitions))
	for i, part := range source.Partitions {
		entries[i] = MappingEntry{Source: part}
		if i < len(dest.Partitions) {
			destPart := dest.Partitions[i]
			entries[i].Dest = &destPart
		}
	}
	return &Plan{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		SourceDisk: source,
		DestDisk:   dest,
		Entries:    entries,
		RootIndex:  -1,
		EFIIndex:   -1,
	}
}

// Remap points entry i at the given destination partition.
func (p *Plan) Remap(i int, dest blockdev.Partition) error {
	if i < 0 || i >= len(p.Entries) {
		return fmt.Errorf("mapping index %d out of range [0,%d)", i, len(p.Entries))
	}
	p.Entries[i].Dest = &dest
	return nil
}

// Skip clears the destination of entry i.
func (p *Plan) Skip(i int) error {
	if i < 0 || i >= len(p.Entries) {
		return fmt.Errorf("mapping index %d out of range [0,%d)", i, len(p.Entries))
	}
	p.Entries[i].Dest = nil
	return nil
}

// SetRoot designates entry i as the root filesystem mapping.
func (p *Plan) SetRoot(i int) error {
	if i < 0 || i >= len(p.Entries) {
		return fmt.Errorf("root index %d out of range [0,%d)", i, len(p.Entries))
	}
	p.RootIndex = i
	return nil
}

// SetEFI designates entry i as the EFI system partition mapping, or clears the
// designation when i is negative.
func (p *Plan) SetEFI(i int) error {
	if i >= len(p.Entries) {
		return fmt.Errorf("efi index %d out of range [0,%d)", i, len(p.Entries))
	}
	if i < 0 {
		p.EFIIndex = -1
		return nil
	}
	p.EFIIndex = i
	return nil
}

// AddExclude appends a rule unless an equal pattern already exists.
func (p *Plan) AddExclude(pattern string, origin ExcludeOrigin) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return fmt.Errorf("exclude pattern is empty")
	}
	if _, err := path.Match(pattern, "probe"); err != nil {
		return fmt.Errorf("exclude pattern %q: %w", pattern, err)
	}
	for _, rule := range p.Excludes {
		if rule.Pattern == pattern {
			return nil
		}
	}
	p.Excludes = append(p.Excludes, ExcludeRule{Pattern: pattern, Origin: origin})
	return nil
}

// RemoveExclude deletes the rule with the given pattern, if present.
func (p *Plan) RemoveExclude(pattern string) {
	pattern = strings.TrimSpace(pattern)
	for i, rule := range p.Excludes {
		if rule.Pattern == pattern {
			p.Excludes = append(p.Excludes[:i], p.Excludes[i+1:]...)
			return
		}
	}
}

// SeedExcludes adds the given patterns under one origin, preserving order and
// skipping duplicates.
func (p *Plan) SeedExcludes(patterns []string, origin ExcludeOrigin) error {
	for _, pattern := range patterns {
		if err := p.AddExclude(pattern, origin); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns a one-line description for logs and the history journal.
func (p *Plan) Summary() string {
	return fmt.Sprintf("%s -> %s (%d partitions)", p.SourceDisk.Path, p.DestDisk.Path, len(p.Entries))
}
