// Package messages serves the inbox and conversation threads shared by
// students and companies.
package messages

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"internship-portal/internal/common/validation"
	"internship-portal/internal/models"
	"internship-portal/internal/pages"
	"internship-portal/internal/session"
	"internship-portal/internal/ui"
	"internship-portal/internal/web/middleware"
	"internship-portal/internal/web/render"
)

type Handler struct {
	pages.Base
}

func NewHandler(deps pages.Dependencies) (*Handler, error) {
	base, err := pages.NewBase(deps, "messages")
	if err != nil {
		return nil, err
	}
	return &Handler{Base: base}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return middleware.Chain(fn, session.RequireRole(models.RoleStudent, models.RoleCompany))
	}
	mux.Handle("GET /messages", guard(h.Inbox))
	mux.Handle("GET /messages/{userId}", guard(h.Thread))
	mux.Handle("POST /messages/{userId}", guard(h.Send))
}

type inboxData struct {
	Items  []models.Conversation
	Filter ui.ConversationFilter
}

func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	convs, err := h.Deps.API.Conversations(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "messages.conversations", err)
		return
	}
	sort.SliceStable(convs, func(i, j int) bool { return convs[i].LastMessageAt.After(convs[j].LastMessageAt) })

	filter := ui.ConversationFilter{Query: query.Get("q"), UnreadOnly: query.Get("unread") != ""}
	h.Render(w, r, render.Page{
		Name:  "messages/inbox",
		Title: "Messages",
		Nav:   "messages",
		Data:  inboxData{Items: filter.Apply(convs), Filter: filter},
	})
}

type threadData struct {
	PartnerID   string
	PartnerName string
	Messages    []models.Message
	Me          string
	Action      string
}

// partnerName is taken from the newest message the partner sent.
func partnerName(msgs []models.Message, partnerID string) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].SenderID == partnerID && msgs[i].SenderName != "" {
			return msgs[i].SenderName
		}
	}
	return "Conversation"
}

func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	me := pages.Session(r).UserID
	partner := r.PathValue("userId")

	msgs, err := h.Deps.API.Thread(ctx, token, partner)
	if err != nil {
		h.Fail(w, r, "messages.thread", err)
		return
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })

	for i := range msgs {
		m := &msgs[i]
		if m.IsRead || m.ReceiverID != me {
			continue
		}
		if err := h.Deps.API.MarkRead(ctx, token, m.ID); err != nil {
			h.Log.Warn("failed to mark message read", map[string]interface{}{"messageId": m.ID, "error": err.Error()})
			continue
		}
		m.IsRead = true
	}

	name := partnerName(msgs, partner)
	h.Render(w, r, render.Page{
		Name:  "messages/thread",
		Title: name,
		Nav:   "messages",
		Data: threadData{
			PartnerID:   partner,
			PartnerName: name,
			Messages:    msgs,
			Me:          me,
			Action:      "/messages/" + url.PathEscape(partner),
		},
	})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	partner := r.PathValue("userId")
	back := "/messages/" + url.PathEscape(partner)
	in := models.MessageInput{ReceiverID: partner, Content: pages.FormString(r, "content")}

	result, err := validation.Validate(validation.FormMessage, in)
	if err != nil {
		h.Fail(w, r, "messages.validate", err)
		return
	}
	if !result.Valid {
		h.Flash(w, r, back, session.FlashError, strings.Join(result.GetErrorMessages(), " "))
		return
	}

	if _, err := h.Deps.API.SendMessage(r.Context(), session.Token(r.Context()), in); err != nil {
		h.FlashFailure(w, r, back, "messages.send", err)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
