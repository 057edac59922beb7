package docai

import "encoding/base64"

const (
	featureKeyValueExtraction = "KEY_VALUE_EXTRACTION"
	featureClassification     = "DOCUMENT_CLASSIFICATION"
)

// analyzeRequest is the wire body submitted to the document-AI service.
type analyzeRequest struct {
	Document inlineDocument `json:"document"`
	Features []feature      `json:"features"`
}

// inlineDocument carries the document bytes inline, base64-encoded.
type inlineDocument struct {
	Source string `json:"source"`
	Data   string `json:"data"`
}

type feature struct {
	FeatureType string `json:"featureType"`
	MaxResults  int    `json:"maxResults,omitempty"`
}

// buildAnalyzeRequest constructs the analysis request for a raw document:
// the document inline plus key-value extraction and classification with a
// bounded candidate count. Pure translation, no I/O.
func buildAnalyzeRequest(fileBytes []byte, maxDocTypes int) analyzeRequest {
	return analyzeRequest{
		Document: inlineDocument{
			Source: "INLINE",
			Data:   base64.StdEncoding.EncodeToString(fileBytes),
		},
		Features: []feature{
			{FeatureType: featureKeyValueExtraction},
			{FeatureType: featureClassification, MaxResults: maxDocTypes},
		},
	}
}
