package handlers

import (
	"errors"
	"net/http"

	"github.com/grlcodee/credify.ai/services"
)

type OCRHandler struct {
	ocr *services.OCRService
}

func NewOCRHandler(ocr *services.OCRService) *OCRHandler {
	return &OCRHandler{ocr: ocr}
}

type ocrRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

func (h *OCRHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ocrRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	res, err := h.ocr.Extract(r.Context(), req.ImageBase64, req.MimeType)
	switch {
	case errors.Is(err, services.ErrNoText):
		// an image without text is a normal outcome, not a failure
		respondWithJSON(w, http.StatusOK, map[string]string{"error": res.Error})
	case err != nil:
		respondWithError(w, err)
	default:
		respondWithJSON(w, http.StatusOK, res)
	}
}
