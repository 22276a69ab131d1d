package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stocksheet/domain/stock"
	"stocksheet/internal/errors"
	"stocksheet/ports"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListDates(w http.ResponseWriter, r *http.Request) {
	dates, err := a.store.ListDates(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"dates": dates})
}

func (a *App) handleListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := a.store.ListSectors(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sectors": sectors})
}

// handleDay returns one trade date's rows with day-over-day comparison
// columns, optionally filtered by ?code=, ?sector= and ?limit=.
func (a *App) handleDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := stock.ParseDate(date); err != nil {
		a.writeError(w, err)
		return
	}

	filter := ports.QueryFilter{
		StockCode: r.URL.Query().Get("code"),
		Sector:    r.URL.Query().Get("sector"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			a.writeError(w, errors.Newf(errors.CodeRecordInvalid, "invalid limit: %q", limit))
			return
		}
		filter.Limit = n
	}

	rows, err := a.queries.DayWithComparison(r.Context(), date, filter)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trade_date": date,
		"count":      len(rows),
		"rows":       rows,
	})
}

func (a *App) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := stock.ParseDate(date); err != nil {
		a.writeError(w, err)
		return
	}

	deleted, err := a.store.DeleteByDate(r.Context(), date)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trade_date": date, "deleted": deleted})
}

// handleRange returns every record across an inclusive trade-date range,
// optionally narrowed to one stock code with ?code=.
func (a *App) handleRange(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	days, err := stock.DateRange(start, end)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if len(days) == 0 {
		a.writeError(w, errors.Newf(errors.CodeRecordInvalid, "start %s is after end %s", start, end))
		return
	}

	// DateRange canonicalizes the accepted date formats to YYYY-MM-DD,
	// which is how trade dates are stored.
	records, err := a.store.QueryByDateRange(r.Context(), days[0], days[len(days)-1], r.URL.Query().Get("code"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"start": days[0],
		"end":   days[len(days)-1],
		"days":  len(days),
		"count": len(records),
		"rows":  records,
	})
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := stock.ParseDate(date); err != nil {
		a.writeError(w, err)
		return
	}
	summary, err := a.queries.Statistics(r.Context(), date)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		a.writeError(w, errors.New(errors.CodeRecordInvalid, "query parameter q is required"))
		return
	}

	records, err := a.store.Search(r.Context(), keyword, r.URL.Query().Get("date"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"count": len(records), "rows": records})
}

func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := a.store.ListImportHistory(r.Context(), a.historyLimit)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

type importRequest struct {
	Path string `json:"path"`
	Dir  string `json:"dir"`
}

// handleImport triggers an import of a server-side file or directory.
func (a *App) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errors.Wrap(err, "invalid import request body"))
		return
	}

	switch {
	case req.Path != "":
		result, err := a.importer.ImportFile(r.Context(), req.Path)
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case req.Dir != "":
		result, err := a.importer.ImportDirectory(r.Context(), req.Dir)
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	default:
		a.writeError(w, errors.New(errors.CodeRecordInvalid, "either path or dir is required"))
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeRecordInvalid, errors.CodeMappingInvalid, errors.CodeTableInvalid, errors.CodeFileInvalid:
		status = http.StatusBadRequest
	}
	a.log.Error("[ui] request failed (%s): %v", code, err)
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": code})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
