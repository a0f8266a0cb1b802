// Package model contains the data model of an offline feature: literal values, attributes,
// classifiers, buckets, and the feature itself, along with the JSON codec used for feature
// artifacts.
//
// All types in this package are immutable once constructed and may be shared between any number
// of goroutines. Evaluation logic lives in the evaluation package; this package only describes
// and validates the shape of the data.
package model
