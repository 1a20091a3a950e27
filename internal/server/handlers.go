package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/taxprep-dev/taxprep/internal/extract"
	"github.com/taxprep-dev/taxprep/internal/prompts"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts a multipart form with the template workbook under
// the "file" field and responds with the flattened adjustment rows as
// CSV. Any sheet or cell mismatch fails the whole request.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "missing form file \"file\"")
		return
	}
	defer file.Close()

	rows, err := extract.Workbook(file)
	if err != nil {
		s.logger.Warn("extraction failed",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.logger.Info("workbook extracted",
		zap.String("filename", header.Filename),
		zap.Int("rows", len(rows)),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="adjustments.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := extract.WriteCSV(w, rows); err != nil {
		s.logger.Error("writing CSV response", zap.Error(err))
	}
}

func (s *Server) handleReviewPrompts(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"prompts": prompts.Review})
}

type applyRequest struct {
	Answers map[string]string `json:"answers"`
}

type adjustmentJSON struct {
	AccountNumber string `json:"account_number"`
	Description   string `json:"description"`
	BookAmount    string `json:"book_amount"`
	Adjustment    string `json:"adjustment"`
	TRAmount      string `json:"tr_amount"`
	Source        string `json:"source"`
}

// handleApplyAdjustments turns answered review prompts into derived
// adjustment rows.
func (s *Server) handleApplyAdjustments(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	rows, err := prompts.Apply(req.Answers)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	out := make([]adjustmentJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, adjustmentJSON{
			AccountNumber: row.AccountNumber,
			Description:   row.Description,
			BookAmount:    row.BookAmount.String(),
			Adjustment:    row.Adjustment.String(),
			TRAmount:      row.TRAmount.String(),
			Source:        row.Source,
		})
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"adjustments": out})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
