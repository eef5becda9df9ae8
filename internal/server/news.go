package server

import (
	"fmt"
	"net/http"
	"strconv"

	"news_notes/internal/auth"
	"news_notes/internal/forms"
	"news_notes/internal/models"
)

type newsDetailPage struct {
	News     *models.News     `json:"news"`
	Comments []models.Comment `json:"comments"`
	Form     *formContext     `json:"form,omitempty"`
}

type commentPage struct {
	Comment *models.Comment `json:"comment"`
	Form    *formContext    `json:"form,omitempty"`
}

func commentsURL(newsID int64) string {
	return fmt.Sprintf("/news/%d/#comments", newsID)
}

// newsHome — главная: новости по дате, новые первыми.
func (s *Server) newsHome(w http.ResponseWriter, r *http.Request) {
	pageNum := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			notFound(w, r)
			return
		}
		pageNum = n
	}

	p, err := s.news.Home(r.Context(), pageNum)
	if err != nil {
		fail(w, r, err)
		return
	}
	page(w, r, p)
}

// newsDetail — новость и комментарии. Форма только для вошедших.
func (s *Server) newsDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	s.renderDetail(w, r, id, nil)
}

func (s *Server) renderDetail(w http.ResponseWriter, r *http.Request, newsID int64, form *formContext) {
	n, comments, err := s.news.Detail(r.Context(), newsID)
	if err != nil {
		fail(w, r, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	data := newsDetailPage{News: n, Comments: comments}
	if auth.IdentityFrom(r.Context()).Authenticated {
		if form == nil {
			form = &formContext{Data: forms.CommentForm{}}
		}
		data.Form = form
	}
	page(w, r, data)
}

// commentCreate — новый комментарий. Ошибки формы показываются на странице новости.
func (s *Server) commentCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var form forms.CommentForm
	if !decode(w, r, &form) {
		return
	}

	_, err := s.news.AddComment(r.Context(), auth.IdentityFrom(r.Context()), id, form)
	if errs, invalid := forms.ErrorsOf(err); invalid {
		s.renderDetail(w, r, id, &formContext{Data: form, Errors: errs})
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	redirect(w, r, commentsURL(id))
}

func (s *Server) commentEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	c, err := s.news.CommentForEdit(r.Context(), auth.IdentityFrom(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	page(w, r, commentPage{Comment: c, Form: &formContext{Data: forms.CommentForm{Text: c.Text}}})
}

func (s *Server) commentEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var form forms.CommentForm
	if !decode(w, r, &form) {
		return
	}

	c, err := s.news.EditComment(r.Context(), auth.IdentityFrom(r.Context()), id, form)
	if errs, invalid := forms.ErrorsOf(err); invalid {
		page(w, r, commentPage{Comment: c, Form: &formContext{Data: form, Errors: errs}})
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	redirect(w, r, commentsURL(c.NewsID))
}

// commentDeleteConfirm — страница подтверждения удаления.
func (s *Server) commentDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	c, err := s.news.CommentForEdit(r.Context(), auth.IdentityFrom(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	page(w, r, commentPage{Comment: c})
}

func (s *Server) commentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	c, err := s.news.DeleteComment(r.Context(), auth.IdentityFrom(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	redirect(w, r, commentsURL(c.NewsID))
}
