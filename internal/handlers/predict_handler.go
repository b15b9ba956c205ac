// File: internal/handlers/predict_handler.go
package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/krishisevak/go-agronomist/internal/services/classifier"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// PredictHandler exposes the leaf-disease classifier. The classifier is an
// external capability; a nil one means prediction is not configured.
type PredictHandler struct {
	Classifier classifier.Classifier
}

func NewPredictHandler(c classifier.Classifier) *PredictHandler {
	return &PredictHandler{Classifier: c}
}

// Predict accepts a multipart image upload and returns the predicted label.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if h.Classifier == nil {
		writeError(w, "model not loaded", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, "no file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	label, err := h.Classifier.Predict(r.Context(), image)
	if err != nil {
		log.Printf("[PredictHandler] classification failed: %v", err)
		writeError(w, "classification failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"prediction": label})
}
