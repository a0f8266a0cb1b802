package store

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/launchdarkly/ld-offline-feature/internal/util"
	"github.com/launchdarkly/ld-offline-feature/model"
)

const artifactSuffix = ".json"

// MaxArtifactSize is the largest artifact LoadFile will read, before or after decompression.
const MaxArtifactSize = 16 << 20

// Load decodes a feature artifact. The error, if any, is a *model.DecodeError.
func Load(data []byte) (*model.OfflineFeature, error) {
	return model.UnmarshalFeature(data)
}

// LoadFile reads and decodes a feature artifact, which may be gzip-compressed. If the file does
// not exist, the error wraps ErrFeatureNotFound; if it cannot be decoded, the error wraps a
// *model.DecodeError.
func LoadFile(path string) (*model.OfflineFeature, error) {
	file, err := os.Open(path) //nolint:gosec // the path is chosen by the caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errFeatureFileNotFound(path)
		}
		return nil, errCannotReadFeatureFile(path, err)
	}
	defer file.Close() //nolint:errcheck
	data, err := util.ReadAll(file, MaxArtifactSize)
	if err != nil {
		return nil, errCannotReadFeatureFile(path, err)
	}
	f, err := Load(data)
	if err != nil {
		return nil, errCannotDecodeFeatureFile(path, err)
	}
	return f, nil
}

// Persist writes a feature to path in the canonical indented layout. If onlyIfChanged is true and
// the file already has exactly those contents, nothing is written. It returns true if the file was
// written. A nil feature is rejected with ErrNilFeature.
//
// The data is written to a temporary file in the same directory, which is then renamed over the
// target, so a Watcher never observes a partially written artifact.
func Persist(f *model.OfflineFeature, path string, onlyIfChanged bool) (bool, error) {
	if f == nil {
		return false, ErrNilFeature
	}
	data := model.MarshalFeatureIndented(f)
	if onlyIfChanged {
		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) { //nolint:gosec
			return false, nil
		}
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return false, errCannotWriteFeatureFile(path, err)
	}
	tmpPath := tmp.Name()
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0644) //nolint:gosec // artifacts are not secret
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return false, errCannotWriteFeatureFile(path, err)
	}
	return true, nil
}
