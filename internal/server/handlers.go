package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/dashboard"
	"github.com/sells-group/adtarget-cli/internal/export"
	"github.com/sells-group/adtarget-cli/internal/ingest"
	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/predict"
)

// Placeholder is shown in place of results before the first run.
const Placeholder = "No predictions yet. Run a prediction to see results here."

// stateView is the JSON form of a dashboard snapshot. The result itself is
// served by /api/predictions.
type stateView struct {
	Params    dashboard.Params    `json:"params"`
	Upload    *model.Upload       `json:"upload,omitempty"`
	Busy      bool                `json:"busy"`
	InFlight  *dashboard.InFlight `json:"in_flight,omitempty"`
	HasResult bool                `json:"has_result"`
	LastError string              `json:"last_error,omitempty"`
	Runs      int                 `json:"runs"`
}

func viewOf(st dashboard.State) stateView {
	v := stateView{
		Params:    st.Params,
		Upload:    st.Upload,
		Busy:      st.Busy,
		InFlight:  st.InFlight,
		HasResult: st.HasResult(),
		Runs:      st.Runs,
	}
	if st.LastError != nil {
		v.LastError = st.LastError.Error()
	}
	return v
}

// paramsPatch holds the fields of a PUT /api/params body. Absent fields are
// left unchanged.
type paramsPatch struct {
	SubjectID *string  `json:"subject_id"`
	Threshold *float64 `json:"threshold"`
	TopK      *int     `json:"top_k"`
	Explain   *bool    `json:"explain"`
}

func (p paramsPatch) actions() []dashboard.Action {
	var out []dashboard.Action
	if p.SubjectID != nil {
		out = append(out, dashboard.SetSubject{SubjectID: *p.SubjectID})
	}
	if p.Threshold != nil {
		out = append(out, dashboard.SetThreshold{Value: *p.Threshold})
	}
	if p.TopK != nil {
		out = append(out, dashboard.SetTopK{Value: *p.TopK})
	}
	if p.Explain != nil {
		out = append(out, dashboard.SetExplain{On: *p.Explain})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(s.session.State()))
}

func (s *Server) handlePutParams(w http.ResponseWriter, r *http.Request) {
	var patch paramsPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, apperr.NewInputInvalid("invalid params body", err))
		return
	}

	st := s.session.State()
	for _, a := range patch.actions() {
		st = s.session.Dispatch(a)
	}
	writeJSON(w, http.StatusOK, viewOf(st))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)

	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.NewInputInvalid(`multipart field "file" is required`, err))
		return
	}
	defer f.Close()

	up, err := ingest.ReadUpload(hdr.Filename, f, s.maxUpload)
	if err != nil {
		writeError(w, err)
		return
	}
	st := s.session.Dispatch(dashboard.SelectUpload{Upload: up})

	zap.L().Info("server: upload selected",
		zap.String("name", up.Name),
		zap.Int64("size", up.Size),
	)
	writeJSON(w, http.StatusCreated, viewOf(st))
}

func (s *Server) handleStartPrediction(w http.ResponseWriter, r *http.Request) {
	wait := false
	if q := r.URL.Query().Get("wait"); q != "" {
		b, err := strconv.ParseBool(q)
		if err != nil {
			writeError(w, apperr.NewInputInvalid("wait must be a boolean", err))
			return
		}
		wait = b
	}

	run, err := s.session.Start(s.ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	if !wait {
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": "accepted",
			"run_id": run.ID,
		})
		return
	}

	res, err := run.Wait(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if res == nil {
		// Cleared or superseded before this request could read it.
		writeError(w, apperr.ErrNoResult)
		return
	}
	s.writeResult(w, res)
}

func (s *Server) handleGetPredictions(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.Result()
	if err != nil {
		writeErrorCode(w, http.StatusNotFound, "no_result", Placeholder)
		return
	}
	s.writeResult(w, res)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.Dispatch(dashboard.Clear{})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(f predict.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.session.Result()
		if err != nil {
			writeError(w, err)
			return
		}

		name, err := export.Filename(res, f)
		if err != nil {
			writeError(w, apperr.NewExportFailure("download", err))
			return
		}
		b, err := predict.Encode(res, f)
		if err != nil {
			writeError(w, apperr.NewExportFailure(name, eris.Wrap(err, "server: encode export")))
			return
		}

		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition", contentDisposition(name))
		w.Header().Set("Content-Length", strconv.Itoa(len(b)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

func (s *Server) writeResult(w http.ResponseWriter, res *model.FilteredResult) {
	text, err := predict.ToStructuredText(res)
	if err != nil {
		writeError(w, apperr.NewExportFailure("response", err))
		return
	}
	writeText(w, http.StatusOK, text)
}

func contentDisposition(name string) string {
	return `attachment; filename="` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}
