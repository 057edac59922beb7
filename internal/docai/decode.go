package docai

import (
	"encoding/json"
	"fmt"

	"invoscan/internal/port"
)

// Wire shapes of the service response. The service reports every field
// value as one loosely-typed object; decoding maps each onto an explicit
// scalar or group variant so downstream code branches on a checked kind.
type wireResult struct {
	Pages                 []wirePage    `json:"pages"`
	DetectedDocumentTypes []wireDocType `json:"detectedDocumentTypes"`
}

type wirePage struct {
	PageNumber     int         `json:"pageNumber"`
	DocumentFields []wireField `json:"documentFields"`
}

type wireField struct {
	FieldLabel *wireLabel `json:"fieldLabel"`
	FieldValue *wireValue `json:"fieldValue"`
}

type wireLabel struct {
	Name       string   `json:"name"`
	Confidence *float64 `json:"confidence"`
}

type wireValue struct {
	Text  *string    `json:"text"`
	Items []wireItem `json:"items"`
}

type wireItem struct {
	Fields []wireField `json:"fields"`
}

type wireDocType struct {
	DocumentType string  `json:"documentType"`
	Confidence   float64 `json:"confidence"`
}

// decodeAnalysisResult converts the raw service response into the tagged
// AnalysisResult tree. A value carrying items decodes as a group; anything
// else decodes as a scalar, with absent text becoming the empty string.
func decodeAnalysisResult(body []byte) (*port.AnalysisResult, error) {
	var wire wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	result := &port.AnalysisResult{}
	for _, p := range wire.Pages {
		page := port.Page{PageNumber: p.PageNumber}
		for _, f := range p.DocumentFields {
			page.Fields = append(page.Fields, decodeField(f))
		}
		result.Pages = append(result.Pages, page)
	}
	for _, dt := range wire.DetectedDocumentTypes {
		result.DocumentTypes = append(result.DocumentTypes, port.DocumentTypeScore{
			DocumentType: dt.DocumentType,
			Confidence:   dt.Confidence,
		})
	}
	return result, nil
}

func decodeField(f wireField) port.DocumentField {
	field := port.DocumentField{}
	if f.FieldLabel != nil {
		field.Label = &port.FieldLabel{
			Name:       f.FieldLabel.Name,
			Confidence: f.FieldLabel.Confidence,
		}
	}
	if f.FieldValue == nil {
		return field
	}

	value := &port.FieldValue{}
	if f.FieldValue.Items != nil {
		value.Kind = port.ValueGroup
		for _, item := range f.FieldValue.Items {
			group := port.GroupItem{}
			for _, sub := range item.Fields {
				group.Fields = append(group.Fields, decodeField(sub))
			}
			value.Items = append(value.Items, group)
		}
	} else {
		value.Kind = port.ValueScalar
		if f.FieldValue.Text != nil {
			value.Text = *f.FieldValue.Text
		}
	}
	field.Value = value
	return field
}
