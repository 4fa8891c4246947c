package handlers

import (
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"kakeibo/internal/api/middleware"
	"kakeibo/internal/extract"
)

// maxUploadBytes caps receipt uploads. Phone camera JPEGs stay well under
// this.
const maxUploadBytes = 10 << 20

// OCRHandler turns uploaded receipt and statement images into transaction
// candidates.
type OCRHandler struct {
	scanner  ImageScanner
	archiver ReceiptArchiver
	log      zerolog.Logger
}

// NewOCRHandler creates the handler. archiver may be nil when no bucket is
// configured; scans still work, images are just not retained.
func NewOCRHandler(scanner ImageScanner, archiver ReceiptArchiver, log zerolog.Logger) *OCRHandler {
	return &OCRHandler{scanner: scanner, archiver: archiver, log: log}
}

type batchScanResponse struct {
	IsBatch      bool                    `json:"is_batch"`
	Transactions []extract.StatementItem `json:"transactions"`
	Confidence   float64                 `json:"confidence"`
}

type singleScanResponse struct {
	IsBatch           bool    `json:"is_batch"`
	Amount            int     `json:"amount"`
	Description       string  `json:"description"`
	Date              string  `json:"date,omitempty"`
	SuggestedCategory *string `json:"suggested_category"`
	Confidence        float64 `json:"confidence"`
}

// Scan handles POST /api/ai/ocr. The image arrives as multipart form data
// under the "image" field.
func (h *OCRHandler) Scan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read image")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	result, err := h.scanner.ScanImage(r.Context(), data, mimeType)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to process receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to process receipt")
		return
	}

	// Archival is best effort. A storage failure must not lose the scan.
	if h.archiver != nil {
		if uri, err := h.archiver.Save(r.Context(), userID, mimeType, data); err != nil {
			h.log.Warn().Err(err).Msg("Failed to archive receipt image")
		} else {
			h.log.Debug().Str("uri", uri).Msg("Archived receipt image")
		}
	}

	if result.IsBatch {
		txs := result.Transactions
		if txs == nil {
			txs = []extract.StatementItem{}
		}
		middleware.WriteJSON(w, http.StatusOK, batchScanResponse{
			IsBatch:      true,
			Transactions: txs,
			Confidence:   result.Confidence,
		})
		return
	}

	receipt := result.Receipt
	if receipt == nil {
		h.log.Error().Msg("Scan returned neither batch nor receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to process receipt")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, singleScanResponse{
		IsBatch:           false,
		Amount:            receipt.Amount,
		Description:       receipt.Description,
		Date:              receipt.Date,
		SuggestedCategory: receipt.SuggestedCategory,
		Confidence:        receipt.Confidence,
	})
}
