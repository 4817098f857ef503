package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"PoolTracker/internal/engine"
	"PoolTracker/internal/impexp"
	"PoolTracker/internal/model"
	"PoolTracker/internal/notifier"
)

// maxImportSize caps snapshot uploads; a lifetime of weekly entries is
// a few hundred kilobytes at most.
const maxImportSize = 8 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleData returns the refreshed {entries, kpis} pair.
func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Tracker.Refresh())
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var input model.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode entry input: %v", err))
		return
	}
	data, err := s.Tracker.AddEntry(input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, data)
}

func (s *Server) handleHarvestable(w http.ResponseWriter, _ *http.Request) {
	eligible := s.Tracker.Harvestable()
	if eligible == nil {
		eligible = []model.WeeklyEntry{}
	}
	writeJSON(w, http.StatusOK, eligible)
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		HarvestedFees float64 `json:"harvestedFees"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode harvest input: %v", err))
		return
	}

	data, err := s.Tracker.Harvest(id, req.HarvestedFees)
	switch {
	case errors.Is(err, engine.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, engine.ErrAlreadyHarvested):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.Notifier != nil {
		for _, e := range data.Entries {
			if e.ID == id {
				if err := s.Notifier.Send(notifier.FormatHarvest(e)); err != nil {
					log.Printf("[WARN] harvest notification: %v", err)
				}
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tracker.DeleteEntry(r.PathValue("id")))
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	data, err := s.Tracker.Export()
	if err != nil {
		// Export failures are user-facing: the requested file was not produced.
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("export: %v", err))
		return
	}
	filename := fmt.Sprintf("liquidity-pool-data-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	replace := r.URL.Query().Get("replace") == "true"
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read import payload: %v", err))
		return
	}

	data, err := s.Tracker.Import(payload, replace)
	if errors.Is(err, impexp.ErrInvalidFormat) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	data := s.Tracker.Refresh()
	report := notifier.FormatKPIReport(data.KPIs, len(data.Entries)) + "\n" +
		notifier.FormatRecentEntries(data.Entries, 10)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
