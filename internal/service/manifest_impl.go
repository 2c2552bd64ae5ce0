package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// manifestService is the implementation of the ManifestService interface.
type manifestService struct {
	fs   afero.Fs
	path string
}

// NewManifestService creates a new ManifestService reading the given path.
func NewManifestService(fs afero.Fs, path string) ManifestService {
	return &manifestService{fs: fs, path: path}
}

// ReadVersion reads the declared version from the manifest. The format is
// chosen by file extension: .json expects a top-level "version" key, .toml
// accepts either a top-level "version" key or a [package] table with one.
func (s *manifestService) ReadVersion(_ context.Context) (*domain.Version, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, &domain.MetadataError{Path: s.path, Reason: "manifest not found", Err: err}
	}
	var raw string
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		raw, err = s.versionFromJSON(data)
	case ".toml":
		raw, err = s.versionFromTOML(data)
	default:
		return nil, &domain.MetadataError{Path: s.path, Reason: "unsupported manifest format"}
	}
	if err != nil {
		return nil, err
	}
	version, err := domain.NewVersion(raw)
	if err != nil {
		return nil, &domain.MetadataError{
			Path:   s.path,
			Reason: "version " + raw + " is not a semantic version",
			Err:    err,
		}
	}
	return version, nil
}

// versionFromJSON extracts the version field from a package.json-style manifest.
func (s *manifestService) versionFromJSON(data []byte) (string, error) {
	var manifest domain.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", &domain.MetadataError{Path: s.path, Reason: "failed to parse manifest", Err: err}
	}
	if manifest.Version == "" {
		return "", &domain.MetadataError{Path: s.path, Reason: "manifest has no version field"}
	}
	return manifest.Version, nil
}

// tomlManifest covers both flat manifests and Cargo-style [package] tables.
type tomlManifest struct {
	Version string          `toml:"version"`
	Package domain.Manifest `toml:"package"`
}

// versionFromTOML extracts the version field from a TOML manifest.
func (s *manifestService) versionFromTOML(data []byte) (string, error) {
	var manifest tomlManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return "", &domain.MetadataError{Path: s.path, Reason: "failed to parse manifest", Err: err}
	}
	if manifest.Version != "" {
		return manifest.Version, nil
	}
	if manifest.Package.Version != "" {
		return manifest.Package.Version, nil
	}
	return "", &domain.MetadataError{Path: s.path, Reason: "manifest has no version field"}
}
