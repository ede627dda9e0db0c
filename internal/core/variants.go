package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ccmirror/ccmirror/internal/core/brand"
)

// LoadVariantMeta reads variantDir/variant.json. A missing directory or
// manifest returns ErrVariantNotFound.
func LoadVariantMeta(variantDir string) (*VariantMeta, error) {
	data, err := os.ReadFile(ManifestPath(variantDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, variantNotFound(filepath.Base(variantDir))
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var meta VariantMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", ManifestPath(variantDir), err)
	}
	return &meta, nil
}

// WriteVariantMeta persists meta to variantDir/variant.json.
func WriteVariantMeta(variantDir string, meta *VariantMeta) error {
	if err := writeJSONFile(ManifestPath(variantDir), meta); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ListVariants returns every directory under root, sorted by name, with its
// manifest when one is readable. A missing root yields no entries.
func ListVariants(root string) ([]VariantEntry, error) {
	root = expandPath(root)
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	var entries []VariantEntry
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		entry := VariantEntry{Name: de.Name()}
		if meta, err := LoadVariantMeta(filepath.Join(root, de.Name())); err == nil {
			entry.Meta = meta
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// RemoveVariant deletes root/name. The launcher in the bin dir is left for
// the caller.
func RemoveVariant(root, name string) error {
	if err := ValidateVariantName(name); err != nil {
		return err
	}
	variantDir := filepath.Join(expandPath(root), name)
	if !dirExists(variantDir) {
		return variantNotFound(name)
	}
	if err := os.RemoveAll(variantDir); err != nil {
		return fmt.Errorf("removing %s: %w", variantDir, err)
	}
	return nil
}

// Doctor reports each variant as healthy when its manifest, installed
// binary and launcher all exist.
func Doctor(root, binDir string) ([]DoctorReportItem, error) {
	entries, err := ListVariants(root)
	if err != nil {
		return nil, err
	}
	binDir = expandPath(binDir)

	report := make([]DoctorReportItem, 0, len(entries))
	for _, e := range entries {
		item := DoctorReportItem{
			Name:        e.Name,
			WrapperPath: WrapperPath(binDir, e.Name),
		}
		if e.Meta != nil {
			item.BinaryPath = e.Meta.BinaryPath
			item.OK = fileExists(e.Meta.BinaryPath) && fileExists(item.WrapperPath)
		}
		report = append(report, item)
	}
	return report, nil
}

// TweakVariant ensures the variant's customization config exists and opens
// the customization tool's interactive UI for it.
func TweakVariant(ctx context.Context, root, name string, runner TweakRunner) error {
	if err := ValidateVariantName(name); err != nil {
		return err
	}
	meta, err := LoadVariantMeta(filepath.Join(expandPath(root), name))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(meta.TweakDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", meta.TweakDir, err)
	}
	if _, err := brand.EnsureTweakccConfig(meta.TweakDir, meta.Brand); err != nil {
		return fmt.Errorf("preparing customization config: %w", err)
	}
	return runner.LaunchUI(ctx, meta.TweakDir, meta.BinaryPath)
}
