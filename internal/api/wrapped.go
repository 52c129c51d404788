package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/export"
	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
	"github.com/MikeSquared-Agency/wrapped/internal/report"
)

// run reads the uploaded export and runs the pipeline. On failure it has
// already written the response and returns nil.
func (s *Server) run(w http.ResponseWriter, r *http.Request) *pipeline.Result {
	q := r.URL.Query()

	filter, err := analytics.ParseFilter(q.Get("year"), q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeError(w, r, err)
		return nil
	}
	freq, err := analytics.ParseFreq(q.Get("freq"))
	if err != nil {
		s.writeError(w, r, err)
		return nil
	}

	body := r.Body
	if s.opts.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "export exceeds upload limit"})
			return nil
		}
		s.writeError(w, r, fmt.Errorf("read body: %w", err))
		return nil
	}
	if len(raw) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must contain an export"})
		return nil
	}

	tz := q.Get("tz")
	if tz == "" {
		tz = s.opts.Timezone
	}

	res, err := s.pipe.Run(r.Context(), pipeline.Request{
		Raw:      raw,
		Filename: q.Get("filename"),
		Timezone: tz,
		Options:  analytics.Options{Filter: filter, Freq: freq, Keywords: s.opts.Keywords},
	})
	if err != nil {
		s.writeError(w, r, err)
		return nil
	}
	return res
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	res := s.run(w, r)
	if res == nil {
		return
	}
	sum := report.NewSummary(res)
	s.send(w, "application/json", report.SummaryFileName(sum.Year), func(b *bytes.Buffer) error {
		return report.WriteJSON(b, sum)
	})
}

func (s *Server) reportHTML(w http.ResponseWriter, r *http.Request) {
	res := s.run(w, r)
	if res == nil {
		return
	}
	sum := report.NewSummary(res)
	s.send(w, "text/html; charset=utf-8", report.HTMLFileName(sum.Year), func(b *bytes.Buffer) error {
		return report.WriteHTML(b, sum)
	})
}

func (s *Server) messagesCSV(w http.ResponseWriter, r *http.Request) {
	s.writeTable(w, r, report.TableMessages)
}

func (s *Server) conversationsCSV(w http.ResponseWriter, r *http.Request) {
	s.writeTable(w, r, report.TableConversations)
}

func (s *Server) tableCSV(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	if _, known := knownTables[name]; !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown table %q", name)})
		return
	}
	s.writeTable(w, r, name)
}

var knownTables = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, n := range report.TableNames() {
		m[n] = struct{}{}
	}
	return m
}()

func (s *Server) writeTable(w http.ResponseWriter, r *http.Request, name string) {
	res := s.run(w, r)
	if res == nil {
		return
	}
	t, _ := report.TableByName(res, name)
	s.send(w, "text/csv; charset=utf-8", report.TableFileName(name, res.Filter.YearLabel()), func(b *bytes.Buffer) error {
		return report.WriteCSV(b, t)
	})
}

// send renders into a buffer first so a render failure still yields a clean 500.
func (s *Server) send(w http.ResponseWriter, contentType, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Error("render failed", "file", filename, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render report"})
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Report-ID", uuid.NewString())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// writeError maps pipeline errors to status codes. Deadline errors are left to
// the Timeout middleware, which answers 504.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		formatErr *export.FormatError
		configErr *export.ConfigError
		filterErr *analytics.FilterError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("request deadline exceeded", "path", r.URL.Path)
	case errors.Is(err, context.Canceled):
		s.logger.Info("request cancelled", "path", r.URL.Path)
	case errors.As(err, &formatErr), errors.As(err, &configErr), errors.As(err, &filterErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("wrapped request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
