package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"textintel/internal/domain"
	"textintel/internal/service"
	"textintel/internal/summarizer"
)

const maxBodyBytes = 1 << 20

type textInput struct {
	Text *string `json:"text"`
}

type summarizeInput struct {
	Text      *string `json:"text"`
	MaxLength *int    `json:"max_length"`
}

type searchInput struct {
	Query *string `json:"query"`
	TopK  *int    `json:"top_k"`
}

type addDocumentInput struct {
	Text     *string         `json:"text"`
	Metadata domain.Metadata `json:"metadata"`
}

type searchResponse struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
}

type addDocumentResponse struct {
	Status         string `json:"status"`
	DocumentID     int    `json:"document_id"`
	TotalDocuments int    `json:"total_documents"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Health  string `json:"health"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// validationError is reported to clients as 422.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func invalidf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func isValidation(err error) bool {
	var ve *validationError
	return errors.As(err, &ve) || errors.Is(err, service.ErrInvalidInput)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return invalidf("request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return invalidf("%s: expected %s", typeErr.Field, typeErr.Type)
		}
		return invalidf("invalid JSON body: %v", err)
	}
	return nil
}

func required(field string, v *string) (string, error) {
	if v == nil {
		return "", invalidf("%s: field required", field)
	}
	return *v, nil
}

func (in textInput) validate() (string, error) {
	text, err := required("text", in.Text)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", invalidf("text: must contain at least 1 character")
	}
	return text, nil
}

func (in summarizeInput) validate() (string, int, error) {
	text, err := required("text", in.Text)
	if err != nil {
		return "", 0, err
	}
	if n := len([]rune(text)); n < service.MinSummarizeChars {
		return "", 0, invalidf("text: must contain at least %d characters", service.MinSummarizeChars)
	}
	maxLength := summarizer.DefaultMaxLength
	if in.MaxLength != nil {
		maxLength = *in.MaxLength
	}
	if maxLength < service.MinSummaryLength || maxLength > service.MaxSummaryLength {
		return "", 0, invalidf("max_length: must be between %d and %d", service.MinSummaryLength, service.MaxSummaryLength)
	}
	return text, maxLength, nil
}

func (in searchInput) validate() (string, int, error) {
	query, err := required("query", in.Query)
	if err != nil {
		return "", 0, err
	}
	if query == "" {
		return "", 0, invalidf("query: must contain at least 1 character")
	}
	topK := service.DefaultTopK
	if in.TopK != nil {
		topK = *in.TopK
	}
	if topK < service.MinTopK || topK > service.MaxTopK {
		return "", 0, invalidf("top_k: must be between %d and %d", service.MinTopK, service.MaxTopK)
	}
	return query, topK, nil
}

func (in addDocumentInput) validate() (string, domain.Metadata, error) {
	text, err := required("text", in.Text)
	if err != nil {
		return "", nil, err
	}
	if text == "" {
		return "", nil, invalidf("text: must contain at least 1 character")
	}
	meta := in.Metadata
	if meta == nil {
		meta = domain.Metadata{}
	}
	return text, meta, nil
}
