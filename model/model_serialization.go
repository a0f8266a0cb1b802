package model

import (
	"bytes"
	"encoding/json"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Property names used in feature artifacts. These are shared with other implementations of the
// artifact format and must not change.
const (
	propType           = "type"
	propTag            = "__type"
	propPythonVersions = "python_versions"
	propBuckets        = "buckets"
	propValues         = "values"
	propDefault        = "default"
	propName           = "name"
	propClassifier     = "classifier"
	propValue          = "value"
	propAttribute      = "attribute"
	propArgs           = "args"
)

// MarshalFeature returns the compact canonical JSON encoding of a feature.
//
// The canonical layout embeds each bucket's value in the bucket, tags classifiers with "__type",
// and writes map keys in sorted order, so that equal features always produce identical bytes.
func MarshalFeature(f *OfflineFeature) []byte {
	w := jwriter.NewWriter()
	WriteFeature(&w, f)
	return w.Bytes()
}

// MarshalFeatureIndented is the same as MarshalFeature, but with two-space indentation. This is the
// form used for persisted artifacts.
func MarshalFeatureIndented(f *OfflineFeature) []byte {
	return indent(MarshalFeature(f))
}

// MarshalClassifier returns the JSON encoding of a classifier.
func MarshalClassifier(c Classifier) []byte {
	w := jwriter.NewWriter()
	WriteClassifier(&w, c)
	return w.Bytes()
}

// MarshalValue returns the JSON encoding of a value.
func MarshalValue(v Value) []byte {
	w := jwriter.NewWriter()
	WriteValue(&w, v)
	return w.Bytes()
}

// MarshalJSON implements json.Marshaler.
func (f *OfflineFeature) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	WriteFeature(&w, f)
	return w.Bytes(), w.Error()
}

// MarshalJSON implements json.Marshaler.
func (c Classifier) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	WriteClassifier(&w, c)
	return w.Bytes(), w.Error()
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	WriteValue(&w, v)
	return w.Bytes(), w.Error()
}

// WriteFeature writes the canonical encoding of a feature to a jwriter.Writer.
func WriteFeature(w *jwriter.Writer, f *OfflineFeature) {
	if f == nil {
		w.Null()
		return
	}
	obj := w.Object()
	obj.Name(propType).String(f.featureType)
	versionsArr := obj.Name(propPythonVersions).Array()
	for _, v := range f.pythonVersions {
		w.String(v)
	}
	versionsArr.End()
	bucketsArr := obj.Name(propBuckets).Array()
	for _, b := range f.buckets {
		bucketObj := w.Object()
		bucketObj.Name(propName).String(b.name)
		WriteClassifier(bucketObj.Name(propClassifier), b.classifier)
		WriteValue(bucketObj.Name(propValue), b.value)
		bucketObj.End()
	}
	bucketsArr.End()
	WriteValue(obj.Name(propDefault), f.defaultValue)
	obj.End()
}

// WriteClassifier writes the encoding of a classifier to a jwriter.Writer.
func WriteClassifier(w *jwriter.Writer, c Classifier) {
	obj := w.Object()
	obj.Name(propTag).String(string(c.Op))
	switch {
	case c.Op == OperatorAll || c.Op == OperatorAny:
		childrenArr := obj.Name(propValue).Array()
		for _, child := range c.children {
			WriteClassifier(w, child)
		}
		childrenArr.End()
	case c.Op == OperatorNot:
		WriteValue(obj.Name(propValue), c.Value)
	default:
		writeAttribute(obj.Name(propAttribute), c.Attribute)
		WriteValue(obj.Name(propValue), c.Value)
	}
	obj.End()
}

func writeAttribute(w *jwriter.Writer, a Attribute) {
	obj := w.Object()
	obj.Name(propName).String(string(a.Kind))
	if a.Type != "" {
		obj.Name(propType).String(a.Type)
	}
	if a.Kind == AttributeStaticNumber {
		obj.Name(propValue).Float64(a.Number)
	}
	if len(a.args) != 0 {
		argsArr := obj.Name(propArgs).Array()
		for _, arg := range a.args {
			WriteValue(w, arg)
		}
		argsArr.End()
	}
	obj.End()
}

// WriteValue writes the encoding of a value to a jwriter.Writer. Map keys are written in sorted
// order; classifier values are written as tagged classifier objects.
func WriteValue(w *jwriter.Writer, v Value) {
	switch v.kind {
	case StringKind:
		w.String(v.stringValue)
	case NumberKind:
		w.Float64(v.numberValue)
	case BoolKind:
		w.Bool(v.boolValue)
	case ArrayKind:
		arr := w.Array()
		for _, e := range v.arrayValue {
			WriteValue(w, e)
		}
		arr.End()
	case MapKind:
		obj := w.Object()
		for _, k := range v.Keys() {
			WriteValue(obj.Name(k), v.mapValue[k])
		}
		obj.End()
	case ClassifierKind:
		WriteClassifier(w, *v.classifier)
	default:
		w.Null()
	}
}

func indent(data []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return data // COVERAGE: jwriter output is always valid JSON
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
