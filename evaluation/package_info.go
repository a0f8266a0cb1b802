// Package evaluation decides which bucket of an offline feature applies to the current process.
//
// An Evaluator walks a feature's buckets in order and returns the first one whose classifier is
// satisfied, falling back to the feature's default value. Attribute values come from a Context,
// which supplies the host name and the per-process session random value.
package evaluation
