// Copyright (c) 2025 Vlah Software House. All rights reserved.

package handlers

import (
	"net/http"
)

// ListComments returns a page of comments for moderation. The
// ?approved=true|false filter narrows the list; anything else means all.
func (h *Admin) ListComments(w http.ResponseWriter, r *http.Request) {
	var approved *bool
	switch r.URL.Query().Get("approved") {
	case "true", "1":
		t := true
		approved = &t
	case "false", "0":
		f := false
		approved = &f
	}

	page, err := h.comments.List(pageParam(r), approved)
	if err != nil {
		respondServerError(w, "list comments failed", err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// ApproveComment marks a comment approved so it becomes publicly visible.
func (h *Admin) ApproveComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	approved, err := h.comments.Approve(id)
	if err != nil {
		respondServerError(w, "approve comment failed", err)
		return
	}
	if !approved {
		respondNotFound(w)
		return
	}

	c, err := h.comments.FindByID(id)
	if err != nil || c == nil {
		respondServerError(w, "reload comment failed", err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DeleteComment removes a comment permanently.
func (h *Admin) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.comments.Delete(id)
	if err != nil {
		respondServerError(w, "delete comment failed", err)
		return
	}
	if !deleted {
		respondNotFound(w)
		return
	}
	respondMessage(w, http.StatusOK, "Deleted")
}

// ListContacts returns a page of contact form messages, newest first.
func (h *Admin) ListContacts(w http.ResponseWriter, r *http.Request) {
	page, err := h.contacts.List(pageParam(r))
	if err != nil {
		respondServerError(w, "list contact messages failed", err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// ShowContact returns a single contact message.
func (h *Admin) ShowContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	m, err := h.contacts.FindByID(id)
	if err != nil {
		respondServerError(w, "find contact message failed", err)
		return
	}
	if m == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// ReviewContact marks a contact message as handled.
func (h *Admin) ReviewContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	m, err := h.contacts.MarkReviewed(id)
	if err != nil {
		respondServerError(w, "review contact message failed", err)
		return
	}
	if m == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, m)
}
