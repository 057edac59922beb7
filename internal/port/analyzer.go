package port

import "context"

// AnalyzeInput carries a raw document to submit for analysis.
type AnalyzeInput struct {
	FileBytes   []byte
	ContentType string
}

// ValueKind discriminates the two shapes a field value can take. The
// normalizer branches on this instead of probing for attribute presence.
type ValueKind int

const (
	// ValueScalar is a plain text value.
	ValueScalar ValueKind = iota
	// ValueGroup is an ordered sequence of repeated items (line items).
	ValueGroup
)

// FieldLabel is the optional label the service attached to a field.
// Confidence is nil when the service returned no score.
type FieldLabel struct {
	Name       string
	Confidence *float64
}

// FieldValue is either scalar text or an ordered group of items,
// depending on Kind.
type FieldValue struct {
	Kind  ValueKind
	Text  string
	Items []GroupItem
}

// GroupItem is one repeated entry (one invoice line) inside a group field.
type GroupItem struct {
	Fields []DocumentField
}

// DocumentField is one extracted field, labeled or not. A nil Label means
// the service could not name the field; a nil Value is malformed input.
type DocumentField struct {
	Label *FieldLabel
	Value *FieldValue
}

// Page is one page of the analyzed document with its extracted fields,
// in source order.
type Page struct {
	PageNumber int
	Fields     []DocumentField
}

// DocumentTypeScore is one document classification candidate.
type DocumentTypeScore struct {
	DocumentType string
	Confidence   float64
}

// AnalysisResult is the hierarchical output of the document-AI service.
// It exists only for the duration of one extraction request.
type AnalysisResult struct {
	Pages         []Page
	DocumentTypes []DocumentTypeScore
}

// DocumentAnalyzer abstracts the document-AI service call.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*AnalysisResult, error)
}
