package server

import (
	"net/http"

	"news_notes/internal/auth"
	"news_notes/internal/forms"
)

type authPage struct {
	Form *formContext `json:"form"`
	Next string       `json:"next,omitempty"`
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	page(w, r, authPage{
		Form: &formContext{Data: map[string]string{"username": ""}},
		Next: r.URL.Query().Get("next"),
	})
}

// login выдаёт cookie сессии и возвращает на next, если он локальный.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	if !decode(w, r, &form) {
		return
	}
	next := r.URL.Query().Get("next")

	sess, err := s.opts.Users.Login(r.Context(), form)
	if errs, invalid := forms.ErrorsOf(err); invalid {
		page(w, r, authPage{
			Form: &formContext{Data: map[string]string{"username": form.Username}, Errors: errs},
			Next: next,
		})
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	auth.SetSession(w, s.opts.CookieName, sess.Token, sess.Expires)
	redirect(w, r, auth.SafeNext(next, "/"))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w, s.opts.CookieName)
	page(w, r, map[string]string{"message": "Вы вышли из своей учётной записи."})
}

func (s *Server) signupForm(w http.ResponseWriter, r *http.Request) {
	page(w, r, authPage{Form: &formContext{Data: map[string]string{"username": ""}}})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var form forms.SignupForm
	if !decode(w, r, &form) {
		return
	}

	_, err := s.opts.Users.Signup(r.Context(), form)
	if errs, invalid := forms.ErrorsOf(err); invalid {
		page(w, r, authPage{Form: &formContext{Data: map[string]string{"username": form.Username}, Errors: errs}})
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	redirect(w, r, "/")
}
