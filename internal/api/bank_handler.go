package api

import (
	"net/http"
)

type bankSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Questions int      `json:"questions"`
	Topics    []string `json:"topics"`
}

// GET /api/banks
func (h *Handler) listBanks(w http.ResponseWriter, r *http.Request) {
	banks := h.banks.All()
	out := make([]bankSummary, 0, len(banks))
	for _, b := range banks {
		out = append(out, bankSummary{
			ID:        b.ID,
			Title:     b.Title,
			Questions: len(b.Questions),
			Topics:    b.Topics(),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"banks": out})
}

// GET /api/banks/{bankID}
func (h *Handler) getBank(w http.ResponseWriter, r *http.Request) {
	bank, err := h.svc.Bank(r.PathValue("bankID"))
	if h.handleError(w, err, "bank") {
		return
	}
	respondJSON(w, http.StatusOK, bank.Public())
}
