package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/export"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/places"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/render"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/riskbrief"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/whttp"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Debugf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func flag(r *http.Request, name string, def bool) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func (s *Server) renderOptions(r *http.Request) render.Options {
	return render.Options{
		Redact: flag(r, "redact", false),
		Year:   s.Now().Year(),
	}
}

func (s *Server) handleGetAdvance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Current())
}

func (s *Server) handlePutAdvance(w http.ResponseWriter, r *http.Request) {
	var a advance.Advance
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid advance: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, s.Session.Replace(r.Context(), a))
}

func (s *Server) handleResetAdvance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Reset(r.Context()))
}

func (s *Server) handlePreviewAdvance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, advance.Redact(s.Session.Current(), flag(r, "redact", false)))
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	a, err := s.Session.ApplyTemplate(r.Context(), r.PathValue("key"))
	if errors.Is(err, advance.ErrUnknownTemplate) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, advance.TemplateKeys())
}

func (s *Server) handlePreviewHTML(w http.ResponseWriter, r *http.Request) {
	html, err := render.HTML(s.Session.Current(), s.renderOptions(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	engine := r.URL.Query().Get("engine")
	if engine == "" {
		engine = s.DefaultEngine
	}
	exp, ok := s.Exporters[engine]
	if !ok || exp == nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export engine: %s", engine))
		return
	}

	cur := s.Session.Current()
	opts := s.renderOptions(r)
	fit := flag(r, "fit", true)

	var view export.View
	if engine == EngineChrome {
		opts.Compact = fit && render.NeedsCompact(cur, opts)
		html, err := render.HTML(cur, opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		view = export.HTMLView{HTML: html, Width: render.Width}
	} else {
		view = render.ForExport(cur, opts, fit)
	}

	doc, err := exp.Export(r.Context(), view, export.Options{
		Filename: advance.SanitizeFilename(cur.DetailName),
		Fit:      fit,
		Title:    cur.DetailName,
	})
	if errors.Is(err, export.ErrExportInProgress) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		utils.Log.Warnf("export failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("X-Page-Count", fmt.Sprint(doc.Pages))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

func (s *Server) handleRiskBrief(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	switch r.Method {
	case http.MethodOptions:
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !s.authorized(r) {
		w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if s.Briefs == nil {
		msg := "Missing OPENAI_API_KEY environment variable. Set it in ~/.raden.yaml or the environment."
		if s.BriefsErr != nil {
			msg = s.BriefsErr.Error()
		}
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	req, err := riskbrief.ParseRequest(body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	brief, err := s.Briefs.Generate(r.Context(), req.Advance, req.RedactMode)
	if err != nil {
		utils.Log.Warnf("risk brief failed: %v", err)
		msg := err.Error()
		if msg == "" {
			msg = "Unhandled server error"
		}
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	writeJSON(w, http.StatusOK, brief)
}

func (s *Server) placesUnavailable(w http.ResponseWriter) bool {
	if s.Places != nil {
		return false
	}
	msg := "Missing GOOGLE_MAPS_API_KEY env var"
	if s.PlacesErr != nil && !errors.Is(s.PlacesErr, places.ErrMissingAPIKey) {
		msg = s.PlacesErr.Error()
	}
	writeError(w, http.StatusInternalServerError, msg)
	return true
}

func writePlacesError(w http.ResponseWriter, err error) {
	var up *places.UpstreamError
	switch {
	case errors.As(err, &up):
		utils.Log.Warnf("places upstream: %v", err)
		writeError(w, http.StatusBadRequest, up.Error())
	case errors.Is(err, places.ErrMissingPlaceID):
		writeError(w, http.StatusBadRequest, "Missing placeId")
	default:
		utils.Log.Warnf("places lookup: %v", err)
		writeError(w, http.StatusInternalServerError, whttp.RedactText(err.Error()))
	}
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	if s.placesUnavailable(w) {
		return
	}
	hits, err := s.Places.Autocomplete(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writePlacesError(w, err)
		return
	}
	if hits == nil {
		hits = []places.Suggestion{}
	}
	writeJSON(w, http.StatusOK, hits)
}

func (s *Server) handlePlaceDetails(w http.ResponseWriter, r *http.Request) {
	if s.placesUnavailable(w) {
		return
	}
	d, err := s.Places.Details(r.Context(), r.URL.Query().Get("placeId"))
	if err != nil {
		writePlacesError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
