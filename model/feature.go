package model

// FeatureTypeOffline is the only feature type tag currently defined.
const FeatureTypeOffline = "offline-feature"

// DefaultBucketName is the name reported when no bucket matches. No bucket may use it.
const DefaultBucketName = "default"

// MaxNestingDepth is the deepest nesting of JSON arrays and objects allowed in a feature
// artifact, counting the feature object itself as 1.
const MaxNestingDepth = 512

// JSON nesting depths of the feature elements whose contents can nest arbitrarily.
const (
	defaultValueDepth     = 2 // feature object, "default"
	bucketClassifierDepth = 4 // feature object, "buckets" array, bucket object, "classifier"
	bucketValueDepth      = 4
)

// Compatibility tags commonly found in the python_versions metadata. The metadata is opaque to
// evaluation; any string is preserved.
const (
	VersionAll   = "all"
	VersionPy310 = "py3.10"
	VersionPy312 = "py3.12"
	VersionPy314 = "py3.14"
)

// Bucket is a named population segment, selected when its classifier is satisfied.
type Bucket struct {
	name       string
	classifier Classifier
	value      Value
}

// NewBucket validates and creates a Bucket. If name is "default", the returned error satisfies
// errors.Is(err, ErrReservedBucketName).
func NewBucket(name string, classifier Classifier, value Value) (Bucket, error) {
	if name == DefaultBucketName {
		return Bucket{}, errReservedBucketName("name")
	}
	if err := classifier.Validate(); err != nil {
		return Bucket{}, err
	}
	if err := validateFeatureValue(value, "bucket "+name, bucketValueDepth); err != nil {
		return Bucket{}, err
	}
	return Bucket{name: name, classifier: classifier, value: value}, nil
}

func validateFeatureValue(v Value, path string, depth int) error {
	if v.containsClassifier() {
		return errClassifierAsFeatureValue(path)
	}
	return v.validateLiteral(path, depth, false)
}

// Name returns the bucket name.
func (b Bucket) Name() string { return b.name }

// Classifier returns the expression guarding this bucket.
func (b Bucket) Classifier() Classifier { return b.classifier }

// Value returns the value associated with the bucket.
func (b Bucket) Value() Value { return b.value }

// Equal tests deep equality.
func (b Bucket) Equal(other Bucket) bool {
	return b.name == other.name && b.classifier.Equal(other.classifier) && b.value.Equal(other.value)
}

// OfflineFeature is a complete feature definition: ordered buckets plus a default value.
//
// Bucket order is significant; the first bucket whose classifier is satisfied is selected.
type OfflineFeature struct {
	featureType    string
	pythonVersions []string
	buckets        []Bucket
	defaultValue   Value
}

// NewOfflineFeature creates an OfflineFeature of type FeatureTypeOffline.
//
// The buckets must have been created with NewBucket. The default value may not contain a
// classifier value or a non-finite number.
func NewOfflineFeature(pythonVersions []string, buckets []Bucket, defaultValue Value) (*OfflineFeature, error) {
	if err := validateFeatureValue(defaultValue, DefaultBucketName, defaultValueDepth); err != nil {
		return nil, err
	}
	for _, b := range buckets {
		if b.name == DefaultBucketName {
			return nil, errReservedBucketName("buckets")
		}
	}
	f := &OfflineFeature{
		featureType:  FeatureTypeOffline,
		defaultValue: defaultValue,
	}
	if len(pythonVersions) != 0 {
		f.pythonVersions = make([]string, len(pythonVersions))
		copy(f.pythonVersions, pythonVersions)
	}
	if len(buckets) != 0 {
		f.buckets = make([]Bucket, len(buckets))
		copy(f.buckets, buckets)
	}
	return f, nil
}

// Type returns the feature type tag.
func (f *OfflineFeature) Type() string { return f.featureType }

// PythonVersions returns a copy of the runtime compatibility metadata.
func (f *OfflineFeature) PythonVersions() []string {
	if len(f.pythonVersions) == 0 {
		return nil
	}
	ret := make([]string, len(f.pythonVersions))
	copy(ret, f.pythonVersions)
	return ret
}

// Buckets returns a copy of the buckets in declaration order.
func (f *OfflineFeature) Buckets() []Bucket {
	if len(f.buckets) == 0 {
		return nil
	}
	ret := make([]Bucket, len(f.buckets))
	copy(ret, f.buckets)
	return ret
}

// BucketCount returns the number of buckets.
func (f *OfflineFeature) BucketCount() int { return len(f.buckets) }

// Bucket returns the bucket at index i. It panics if i is out of range, like a slice index.
func (f *OfflineFeature) Bucket(i int) Bucket { return f.buckets[i] }

// Default returns the value used when no bucket matches.
func (f *OfflineFeature) Default() Value { return f.defaultValue }

// Equal tests deep equality, including bucket order.
func (f *OfflineFeature) Equal(other *OfflineFeature) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.featureType != other.featureType || !f.defaultValue.Equal(other.defaultValue) ||
		len(f.pythonVersions) != len(other.pythonVersions) || len(f.buckets) != len(other.buckets) {
		return false
	}
	for i, v := range f.pythonVersions {
		if v != other.pythonVersions[i] {
			return false
		}
	}
	for i, b := range f.buckets {
		if !b.Equal(other.buckets[i]) {
			return false
		}
	}
	return true
}
