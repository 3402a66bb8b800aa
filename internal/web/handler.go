package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/HartBrook/promptcraft/internal/optimize"
)

const sessionCookie = "promptcraft_session"

// pageResponse is what an action hands back for rendering.
type pageResponse struct {
	Code    int
	Err     error // logged
	Outcome *optimize.Outcome
	Notice  *notice // overrides the outcome's notice

	// Form echoes submitted inputs that the session did not keep.
	Form *formValues
}

// pageHandler runs one action against the caller's session.
// The session is locked for the duration of the call.
type pageHandler func(r *http.Request, sess *optimize.Session) pageResponse

// page adapts h into an http.Handler that resolves the session cookie
// and renders the page from the resulting state.
func (s *Server) page(h pageHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
		id, entry := s.store.acquire(id)
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		entry.mu.Lock()
		resp := h(r, entry.sess)
		data := newPageData(s.cfg, entry.sess.Snapshot(), resp.Form)
		entry.mu.Unlock()

		logger := s.logger.With("session", id[:8], "path", r.URL.Path)
		logger.Debug("request", "method", r.Method)
		if resp.Err != nil {
			logger.Error("action failed", "error", resp.Err)
		}
		if resp.Outcome != nil {
			data = data.withOutcome(*resp.Outcome)
			logger.Info("action", "outcome", resp.Outcome.Kind.String())
		}
		if resp.Notice != nil {
			data.Notice = resp.Notice
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, data); err != nil {
			logger.Error("failed to render page", "error", err)
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if resp.Code != 0 {
			w.WriteHeader(resp.Code)
		}
		_, _ = buf.WriteTo(w)
	})
}

func (s *Server) handleIndex(r *http.Request, sess *optimize.Session) pageResponse {
	return pageResponse{}
}

func (s *Server) handleOptimize(r *http.Request, sess *optimize.Session) pageResponse {
	settings, resp, ok := s.formSettings(r, sess)
	if !ok {
		resp.Form = &formValues{Prompt: r.PostFormValue("prompt"), Settings: settings}
		return resp
	}

	prompt := r.PostFormValue("prompt")
	out := s.optimizer.Optimize(r.Context(), sess, prompt, settings)
	resp = outcomeResponse(out)
	if !out.OK() {
		resp.Form = &formValues{Prompt: prompt, Settings: settings}
	}
	return resp
}

func (s *Server) handleSelect(r *http.Request, sess *optimize.Session) pageResponse {
	out := s.optimizer.Select(sess, r.PostFormValue("selected"))
	return outcomeResponse(out)
}

// handleExplain applies the submitted radio choice, then explains it
// against the prompt and model currently in the form.
func (s *Server) handleExplain(r *http.Request, sess *optimize.Session) pageResponse {
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	if selected, ok := r.PostForm["selected"]; ok && len(selected) > 0 {
		if out := s.optimizer.Select(sess, selected[0]); !out.OK() {
			return outcomeResponse(out)
		}
	}

	model := r.PostFormValue("model")
	if !s.cfg.HasModel(model) {
		model = ""
	}

	out := s.optimizer.Explain(r.Context(), sess, r.PostFormValue("prompt"), model)
	return outcomeResponse(out)
}

// formSettings reads model, temperature and count from the form.
func (s *Server) formSettings(r *http.Request, sess *optimize.Session) (optimize.Settings, pageResponse, bool) {
	settings := sess.Snapshot().Settings
	bad := func(err error) (optimize.Settings, pageResponse, bool) {
		return settings, badRequest(err), false
	}

	if err := r.ParseForm(); err != nil {
		return bad(err)
	}

	if v := r.PostFormValue("model"); v != "" {
		settings.Model = v
	}
	if v := r.PostFormValue("temperature"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return bad(err)
		}
		settings.Temperature = t
	}
	if v := r.PostFormValue("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return bad(err)
		}
		settings.Count = n
	}

	if err := s.cfg.ValidateChoice(settings.Model, settings.Temperature, settings.Count); err != nil {
		return bad(err)
	}
	settings.Temperature = optimize.RoundTemperature(settings.Temperature)
	return settings, pageResponse{}, true
}

func outcomeResponse(out optimize.Outcome) pageResponse {
	resp := pageResponse{Outcome: &out}
	if out.Kind == optimize.KindBackendError {
		resp.Code = http.StatusBadGateway
		resp.Err = out.Err
	}
	return resp
}

func badRequest(err error) pageResponse {
	return pageResponse{
		Code:   http.StatusBadRequest,
		Err:    err,
		Notice: &notice{Level: "error", Text: err.Error()},
	}
}
