// Package normalizer flattens the hierarchical analysis result of the
// document-AI service into a flat invoice record: one map of scalar field
// values, a parallel map of per-field confidence scores, and an ordered
// slice of line items taken from the reserved "Items" group.
package normalizer

import (
	"invoscan/internal/domain"
	"invoscan/internal/port"
)

// topLevelConfidence is the overall extraction confidence reported on every
// record. The service does not provide an aggregate score, so this stays a
// constant rather than being derived from per-field scores.
const topLevelConfidence = 1.0

// Normalize walks every page of the analysis result in source order and
// produces the flat invoice record. It performs no I/O; the only failure
// mode is a malformed result tree, reported as *StructureError.
//
// Scalar fields write one entry into Fields and one into FieldConfidence
// (nil confidence when the field had no label). Fields without a label
// collapse onto domain.UnlabeledFieldKey, last writer wins. Group fields
// contribute nothing to either map: the reserved "Items" group feeds the
// line-item slice, and any other group is skipped outright, so a group can
// never pick up a stale value from a preceding scalar field.
func Normalize(res *port.AnalysisResult) (*domain.InvoiceRecord, error) {
	if res == nil {
		return nil, &StructureError{Reason: "nil analysis result"}
	}

	fields := make(map[string]any)
	confidence := make(map[string]*float64)
	lineItems := make([]map[string]string, 0)

	for _, page := range res.Pages {
		for _, f := range page.Fields {
			name := fieldName(f.Label)
			if f.Value == nil {
				return nil, &StructureError{Field: name, Reason: "field has no value"}
			}

			if name == domain.LineItemsKey {
				if f.Value.Kind != port.ValueGroup {
					return nil, &StructureError{Field: name, Reason: "line-item field is not group-valued"}
				}
				items, err := normalizeItems(f.Value.Items)
				if err != nil {
					return nil, err
				}
				lineItems = append(lineItems, items...)
				continue
			}

			switch f.Value.Kind {
			case port.ValueScalar:
				fields[name] = f.Value.Text
				confidence[name] = labelConfidence(f.Label)
			case port.ValueGroup:
				// A repeated group under any other name carries no scalar
				// value; it is omitted from both maps.
			default:
				return nil, &StructureError{Field: name, Reason: "unknown value kind"}
			}
		}
	}

	// Line items are exposed as a field alongside the scalars. This is the
	// only write for the "Items" key.
	fields[domain.LineItemsKey] = lineItems

	return &domain.InvoiceRecord{
		Confidence:      topLevelConfidence,
		Fields:          fields,
		FieldConfidence: confidence,
		LineItems:       lineItems,
	}, nil
}

// normalizeItems builds one name→text mapping per repeated item, in source
// order. Sub-fields inside an item must be scalar.
func normalizeItems(items []port.GroupItem) ([]map[string]string, error) {
	out := make([]map[string]string, 0, len(items))
	for _, item := range items {
		line := make(map[string]string, len(item.Fields))
		for _, g := range item.Fields {
			subName := fieldName(g.Label)
			if g.Value == nil {
				return nil, &StructureError{Field: subName, Reason: "line-item sub-field has no value"}
			}
			if g.Value.Kind != port.ValueScalar {
				return nil, &StructureError{Field: subName, Reason: "line-item sub-field is not scalar"}
			}
			line[subName] = g.Value.Text
		}
		out = append(out, line)
	}
	return out, nil
}

func fieldName(label *port.FieldLabel) string {
	if label != nil && label.Name != "" {
		return label.Name
	}
	return domain.UnlabeledFieldKey
}

func labelConfidence(label *port.FieldLabel) *float64 {
	if label == nil || label.Confidence == nil {
		return nil
	}
	c := *label.Confidence
	return &c
}
