// ABOUTME: HTTP surface of the sahayak core - compose, clear, history, sections, SSE stream
// ABOUTME: The worker answer endpoint is the only way answers enter the system

package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/krishimitra/sahayak/internal/answer"
	"github.com/krishimitra/sahayak/internal/conversation"
	"github.com/krishimitra/sahayak/internal/dedupe"
	"github.com/krishimitra/sahayak/internal/message"
	"github.com/krishimitra/sahayak/internal/store"
)

// deliveryDedupeTTL bounds how long a retried worker delivery is recognized.
const deliveryDedupeTTL = 5 * time.Minute

// API wires the conversation service to HTTP handlers.
type API struct {
	svc          *conversation.Service
	disclosure   *answer.Disclosure
	deliveries   *dedupe.Cache
	logger       *slog.Logger
	historyLimit int
}

// New creates the API layer. historyLimit caps history listings; <= 0 means
// unlimited.
func New(svc *conversation.Service, logger *slog.Logger, historyLimit int) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		svc:          svc,
		disclosure:   answer.NewDisclosure(),
		deliveries:   dedupe.New(deliveryDedupeTTL, 4096),
		logger:       logger.With("component", "httpapi"),
		historyLimit: historyLimit,
	}
}

// Close releases background resources.
func (a *API) Close() {
	a.deliveries.Close()
}

// Router builds the chi router with all routes registered.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/conversations/{conversationID}", func(conv chi.Router) {
			conv.Post("/messages", a.handleSendMessage)
			conv.Get("/messages", a.handleHistory)
			conv.Delete("/messages", a.handleClearHistory)
			conv.Get("/stream", a.handleStream)
		})
		api.Route("/messages/{messageID}", func(msg chi.Router) {
			msg.Get("/sections", a.handleSections)
			msg.Post("/toggle", a.handleToggle)
		})
		api.Post("/worker/messages/{messageID}/answer", a.handleWorkerAnswer)
	})

	return r
}

type sendMessageRequest struct {
	Question string `json:"question"`
}

func (a *API) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := a.svc.SendMessage(r.Context(), conversationID, req.Question)
	switch {
	case errors.Is(err, conversation.ErrEmptyQuestion),
		errors.Is(err, conversation.ErrQuestionTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		a.logger.Error("send failed", "conversation_id", conversationID, "error", err)
		writeError(w, http.StatusBadGateway, "message could not be recorded")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	msgs, err := a.svc.History(r.Context(), conversationID, a.historyLimit)
	if err != nil {
		a.logger.Error("history listing failed", "conversation_id", conversationID, "error", err)
		writeError(w, http.StatusBadGateway, "history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (a *API) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if err := a.svc.ClearHistory(r.Context(), conversationID); err != nil {
		a.logger.Error("clear failed", "conversation_id", conversationID, "error", err)
		writeError(w, http.StatusBadGateway, "history could not be cleared")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sectionView is a Section plus its optional HTML rendering.
type sectionView struct {
	answer.Section
	HTML string `json:"html,omitempty"`
}

func (a *API) handleSections(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	msg, err := a.svc.GetMessage(r.Context(), messageID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	if err != nil {
		a.logger.Error("message lookup failed", "message_id", messageID, "error", err)
		writeError(w, http.StatusBadGateway, "message unavailable")
		return
	}

	sections := answer.Segment(msg.Answer)
	expanded := a.disclosure.IsExpanded(messageID)
	visible := answer.Visible(sections, expanded)

	renderHTML := r.URL.Query().Get("format") == "html"
	views := make([]sectionView, 0, len(visible))
	for _, sec := range visible {
		view := sectionView{Section: sec}
		if renderHTML {
			html, err := renderSectionHTML(sec)
			if err != nil {
				a.logger.Warn("section render failed", "message_id", messageID, "error", err)
			} else {
				view.HTML = html
			}
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messageId": messageID,
		"status":    msg.Status,
		"expanded":  expanded,
		"total":     len(sections),
		"sections":  views,
	})
}

func (a *API) handleToggle(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	a.disclosure.Toggle(messageID)
	writeJSON(w, http.StatusOK, map[string]any{
		"messageId": messageID,
		"expanded":  a.disclosure.IsExpanded(messageID),
	})
}

type workerAnswerRequest struct {
	Answer string `json:"answer"`
	Status any    `json:"status"`
}

func (a *API) handleWorkerAnswer(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	var req workerAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Workers retry deliveries; an identical redelivery inside the window
	// is acknowledged without another store write and snapshot push.
	key := deliveryKey(messageID, req)
	if a.deliveries.CheckAndMark(key) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
		return
	}

	err := a.svc.RecordAnswer(r.Context(), messageID, req.Answer, req.Status)
	if err != nil {
		// Nothing was stored, so the key must not swallow a retry of the
		// same payload as a duplicate.
		a.deliveries.Forget(key)
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	if err != nil {
		a.logger.Error("answer ingestion failed", "message_id", messageID, "error", err)
		writeError(w, http.StatusBadGateway, "answer could not be recorded")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (a *API) handleStream(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	snapshots := make(chan []message.ChatMessage, 4)
	sub, err := a.svc.Watch(r.Context(), conversationID, func(msgs []message.ChatMessage) {
		select {
		case snapshots <- msgs:
		default:
			// Slow client: skip this snapshot, the next one supersedes it.
		}
	})
	if err != nil {
		a.logger.Error("stream subscribe failed", "conversation_id", conversationID, "error", err)
		writeError(w, http.StatusBadGateway, "stream unavailable")
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		case msgs := <-snapshots:
			data, err := json.Marshal(map[string]any{"messages": msgs})
			if err != nil {
				a.logger.Warn("snapshot marshal failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// deliveryKey fingerprints one worker delivery for dedupe purposes.
func deliveryKey(messageID string, req workerAnswerRequest) string {
	statusJSON, _ := json.Marshal(req.Status)
	sum := sha256.Sum256(append([]byte(req.Answer+"\x00"), statusJSON...))
	return messageID + ":" + hex.EncodeToString(sum[:])
}
