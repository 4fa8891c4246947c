// Package extract calls the hosted Gemini model to turn receipt images,
// statement photos, and bank notification emails into structured
// transaction candidates. All calls use schema-constrained JSON output;
// the markdown-fence cleanup is a fallback for models that ignore the
// response MIME type.
package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"kakeibo/internal/config"
	"kakeibo/internal/domain"
)

// ReviewThreshold is the model confidence above which an extracted
// transaction is auto-confirmed. At or below it, the transaction enters
// the review queue.
const ReviewThreshold = 0.8

// StatusFor maps a model confidence score to the initial transaction
// status.
func StatusFor(confidence float64) domain.TransactionStatus {
	if confidence > ReviewThreshold {
		return domain.StatusConfirmed
	}
	return domain.StatusReviewNeeded
}

// ReceiptResult is a single-receipt extraction.
type ReceiptResult struct {
	Amount            int     `json:"amount"`
	Description       string  `json:"description"`
	Date              string  `json:"date,omitempty"`
	SuggestedCategory *string `json:"suggested_category"`
	Confidence        float64 `json:"confidence"`
}

// StatementItem is one line of a multi-transaction statement scan.
type StatementItem struct {
	Amount            int     `json:"amount"`
	Description       string  `json:"description"`
	Date              string  `json:"date"`
	SuggestedCategory *string `json:"suggested_category"`
}

// ScanResult is the outcome of scanning an image: either a batch of
// statement lines, or a single receipt.
type ScanResult struct {
	IsBatch      bool
	Transactions []StatementItem
	Receipt      *ReceiptResult
	Confidence   float64
}

// EmailTransaction is a transaction extracted from a forwarded
// notification email.
type EmailTransaction struct {
	Amount            int     `json:"amount"`
	Type              string  `json:"type"`
	Description       string  `json:"description"`
	Date              string  `json:"date"`
	SuggestedCategory *string `json:"suggested_category"`
	Confidence        float64 `json:"confidence"`
}

// Extractor wraps a genai client. Construct once at process start and pass
// to the handlers that need it.
type Extractor struct {
	client *genai.Client
	model  string
}

// New creates an Extractor. When no API key is configured, credentials
// resolution falls back to the genai client's environment lookup.
func New(ctx context.Context, cfg config.AIConfig) (*Extractor, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	}
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("extract.New: create genai client: %w", err)
	}
	return &Extractor{client: client, model: cfg.Model}, nil
}

// ScanImage runs the two-pass scan: first it asks the model whether the
// image is a multi-line statement and to extract all lines if so; when the
// image turns out to be a single receipt it falls back to the receipt
// schema.
func (e *Extractor) ScanImage(ctx context.Context, image []byte, mimeType string) (*ScanResult, error) {
	imagePart := &genai.Part{
		InlineData: &genai.Blob{MIMEType: mimeType, Data: image},
	}

	var batch struct {
		IsBatch      bool            `json:"is_batch"`
		Transactions []StatementItem `json:"transactions"`
		Confidence   float64         `json:"confidence"`
	}
	err := e.generate(ctx,
		[]*genai.Part{{Text: statementPrompt}, imagePart},
		statementSchema, &batch)
	if err != nil {
		return nil, fmt.Errorf("ScanImage: statement pass: %w", err)
	}

	if batch.IsBatch && len(batch.Transactions) > 0 {
		return &ScanResult{
			IsBatch:      true,
			Transactions: batch.Transactions,
			Confidence:   batch.Confidence,
		}, nil
	}

	var receipt ReceiptResult
	err = e.generate(ctx,
		[]*genai.Part{{Text: receiptPrompt}, imagePart},
		receiptSchema, &receipt)
	if err != nil {
		return nil, fmt.Errorf("ScanImage: receipt pass: %w", err)
	}

	return &ScanResult{
		IsBatch:    false,
		Receipt:    &receipt,
		Confidence: receipt.Confidence,
	}, nil
}

// ExtractFromEmail parses one bank/card/payment notification email into a
// transaction candidate.
func (e *Extractor) ExtractFromEmail(ctx context.Context, subject, body string) (*EmailTransaction, error) {
	var tx EmailTransaction
	err := e.generate(ctx,
		[]*genai.Part{{Text: emailPrompt(subject, body)}},
		emailSchema, &tx)
	if err != nil {
		return nil, fmt.Errorf("ExtractFromEmail: %w", err)
	}
	return &tx, nil
}

func (e *Extractor) generate(ctx context.Context, parts []*genai.Part, schema *genai.Schema, out interface{}) error {
	contents := []*genai.Content{{Role: "user", Parts: parts}}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, cfg)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return fmt.Errorf("empty response from model")
	}

	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), out); err != nil {
		return fmt.Errorf("unmarshal model output: %w (raw: %s)", err, raw)
	}
	return nil
}
