// Package store reads and writes offline feature artifacts.
//
// A FeatureStore serves the artifacts in one directory, one "<name>.json" file per feature. It
// decodes each artifact the first time it is needed and evaluates it on behalf of callers that
// only want a value. A Watcher can keep a FeatureStore current as the files change on disk.
package store
