package azure

import (
	"github.com/HJantango/wild-octave-invoice/internal/extract"
)

// Wire shapes for the analyze operation result. Only the parts the mapper
// consumes are decoded.
type analyzeResponse struct {
	Status        string        `json:"status"`
	AnalyzeResult analyzeResult `json:"analyzeResult"`
	Error         analyzeError  `json:"error"`
}

type analyzeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type analyzeResult struct {
	Documents []analyzedDocument `json:"documents"`
}

type analyzedDocument struct {
	DocType string              `json:"docType"`
	Fields  map[string]rawField `json:"fields"`
}

// rawField is the tagged union Azure uses for document fields. Which value
// member is set depends on "type".
type rawField struct {
	Type          string              `json:"type"`
	Content       string              `json:"content"`
	ValueString   string              `json:"valueString"`
	ValueNumber   *float64            `json:"valueNumber"`
	ValueDate     string              `json:"valueDate"`
	ValueCurrency *rawCurrency        `json:"valueCurrency"`
	ValueArray    []rawField          `json:"valueArray"`
	ValueObject   map[string]rawField `json:"valueObject"`
}

type rawCurrency struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

// toDocument converts the Azure wire shape into the provider-neutral field
// dictionary the mapper consumes.
func (d analyzedDocument) toDocument() extract.Document {
	fields := make(map[string]extract.Value, len(d.Fields))
	for name, f := range d.Fields {
		fields[name] = f.toValue()
	}
	return extract.Document{Fields: fields}
}

func (f rawField) toValue() extract.Value {
	v := extract.Value{Content: f.Content}
	switch f.Type {
	case "string":
		v.Str = f.ValueString
	case "date":
		v.Str = f.ValueDate
	case "number", "integer":
		if f.ValueNumber != nil {
			v.Num = *f.ValueNumber
			v.HasNum = true
		}
	case "currency":
		if f.ValueCurrency != nil {
			v.Num = f.ValueCurrency.Amount
			v.HasNum = true
		}
	case "array":
		for _, item := range f.ValueArray {
			v.Arr = append(v.Arr, item.toValue())
		}
	case "object":
		v.Obj = make(map[string]extract.Value, len(f.ValueObject))
		for name, member := range f.ValueObject {
			v.Obj[name] = member.toValue()
		}
	}
	return v
}
