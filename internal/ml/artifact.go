package ml

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const artifactMagic = "flood-hazard-artifact"

// artifactVersion changes whenever a persisted type changes shape.
const artifactVersion = 1

// ErrArtifactKind is returned when an artifact holds a different kind of object
// than the caller asked for, e.g. a label encoder loaded as a model.
var ErrArtifactKind = errors.New("artifact kind mismatch")

type artifactHeader struct {
	Magic   string
	Version int
	Kind    string
}

// SaveArtifact gob-encodes v under a header naming its kind. The file is
// written to a temporary sibling and renamed, so readers never see a partial
// artifact.
func SaveArtifact(path, kind string, v any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save artifact %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	enc := gob.NewEncoder(tmp)
	if err := enc.Encode(artifactHeader{Magic: artifactMagic, Version: artifactVersion, Kind: kind}); err != nil {
		tmp.Close()
		return fmt.Errorf("save artifact %s: encode header: %w", path, err)
	}
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("save artifact %s: encode %s: %w", path, kind, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save artifact %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save artifact %s: %w", path, err)
	}
	return nil
}

// LoadArtifact decodes an artifact written by SaveArtifact into v, checking
// that its header names the expected kind.
func LoadArtifact(path, kind string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load artifact: %w", err)
	}
	defer f.Close()

	dec := gob.NewDecoder(f)
	var h artifactHeader
	if err := dec.Decode(&h); err != nil {
		return fmt.Errorf("load artifact %s: decode header: %w", path, err)
	}
	if h.Magic != artifactMagic {
		return fmt.Errorf("load artifact %s: not an artifact file", path)
	}
	if h.Version != artifactVersion {
		return fmt.Errorf("load artifact %s: version %d, want %d", path, h.Version, artifactVersion)
	}
	if h.Kind != kind {
		return fmt.Errorf("load artifact %s: %w: holds %q, want %q", path, ErrArtifactKind, h.Kind, kind)
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("load artifact %s: decode %s: %w", path, kind, err)
	}
	return nil
}
