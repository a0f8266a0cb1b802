package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/ld-offline-feature/model"
)

// makeTestFeature returns a feature whose "everyone" bucket always matches with the given value.
func makeTestFeature(t *testing.T, value model.Value) *model.OfflineFeature {
	b, err := model.NewBucket("everyone", model.All(), value)
	require.NoError(t, err)
	f, err := model.NewOfflineFeature([]string{model.VersionAll}, []model.Bucket{b}, model.Bool(false))
	require.NoError(t, err)
	return f
}

func makeFeatureWithoutBuckets(t *testing.T, defaultValue model.Value) *model.OfflineFeature {
	f, err := model.NewOfflineFeature([]string{model.VersionAll}, nil, defaultValue)
	require.NoError(t, err)
	return f
}

func writeFeatureFile(t *testing.T, dir, name string, f *model.OfflineFeature) string {
	path := filepath.Join(dir, name+".json")
	_, err := Persist(f, path, false)
	require.NoError(t, err)
	return path
}

func writeRawFile(t *testing.T, dir, name string, data string) string {
	path := filepath.Join(dir, name+".json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	return path
}

const legacyArtifact = `{
	"type": "offline-feature",
	"python_versions": ["all"],
	"buckets": [
		{"name": "everyone", "classifier": {"type": "bool.all", "attribute": null, "value": []}}
	],
	"values": {"everyone": "legacy-value", "default": "legacy-default"}
}`
