package server

import (
	"net/http"

	"news_notes/internal/auth"
	"news_notes/internal/forms"
	"news_notes/internal/models"

	"github.com/go-chi/chi/v5"
)

// DonePath — страница успешного действия с заметкой.
const DonePath = "/done/"

type notePage struct {
	Note *models.Note `json:"note,omitempty"`
	Form *formContext `json:"form,omitempty"`
}

func noteFormOf(n *models.Note) forms.NoteForm {
	return forms.NoteForm{Title: n.Title, Text: n.Text, Slug: n.Slug}
}

func (s *Server) notesHome(w http.ResponseWriter, r *http.Request) {
	page(w, r, map[string]any{
		"title":         "Заметки",
		"authenticated": auth.IdentityFrom(r.Context()).Authenticated,
	})
}

// notesList — только заметки вызывающего.
func (s *Server) notesList(w http.ResponseWriter, r *http.Request) {
	notes, err := s.notes.List(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	page(w, r, map[string]any{"object_list": notes})
}

func (s *Server) noteAddForm(w http.ResponseWriter, r *http.Request) {
	page(w, r, notePage{Form: &formContext{Data: forms.NoteForm{}}})
}

func (s *Server) noteAdd(w http.ResponseWriter, r *http.Request) {
	var form forms.NoteForm
	if !decode(w, r, &form) {
		return
	}

	_, err := s.notes.Create(r.Context(), auth.IdentityFrom(r.Context()), form)
	if errs, invalid := forms.ErrorsOf(err); invalid {
		page(w, r, notePage{Form: &formContext{Data: form, Errors: errs}})
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	redirect(w, r, DonePath)
}

func (s *Server) noteDetail(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.Get(r.Context(), auth.IdentityFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err)
		return
	}
	page(w, r, notePage{Note: n})
}

func (s *Server) noteEditForm(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.Get(r.Context(), auth.IdentityFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err)
		return
	}
	page(w, r, notePage{Note: n, Form: &formContext{Data: noteFormOf(n)}})
}

func (s *Server) noteEdit(w http.ResponseWriter, r *http.Request) {
	var form forms.NoteForm
	if !decode(w, r, &form) {
		return
	}

	n, err := s.notes.Update(r.Context(), auth.IdentityFrom(r.Context()), chi.URLParam(r, "slug"), form)
	if errs, invalid := forms.ErrorsOf(err); invalid {
		page(w, r, notePage{Note: n, Form: &formContext{Data: form, Errors: errs}})
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	redirect(w, r, DonePath)
}

func (s *Server) noteDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.Get(r.Context(), auth.IdentityFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err)
		return
	}
	page(w, r, notePage{Note: n})
}

func (s *Server) noteDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := s.notes.Delete(r.Context(), auth.IdentityFrom(r.Context()), chi.URLParam(r, "slug")); err != nil {
		fail(w, r, err)
		return
	}
	redirect(w, r, DonePath)
}

func (s *Server) noteDone(w http.ResponseWriter, r *http.Request) {
	page(w, r, map[string]string{"message": "Успешно!"})
}
