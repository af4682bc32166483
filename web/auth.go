package web

// auth.go provides the single-user login gate. The username and bcrypt
// password hash come from configuration; a successful login marks the
// session authenticated until logout or session expiry.

import (
	"html/template"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// sessionKeyAuthenticated marks a logged-in session.
const sessionKeyAuthenticated = "authenticated"

// loggedInOK checks whether the session is authenticated. If not, the
// user is redirected to the /login endpoint.
func (web *WebApp) loggedInOK(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !web.sessions.GetBool(r.Context(), sessionKeyAuthenticated) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleLogin serves the login form and checks submitted credentials. A
// failed login re-renders the form with a single generic message; which
// of the two fields was wrong is not disclosed.
func (web *WebApp) handleLogin() http.Handler {

	name := "login.html"
	tpls := []string{"base.html", "login.html"}
	templates := template.Must(template.ParseFS(web.templateFS, tpls...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		form := &LoginForm{}
		validator := NewValidator()

		data := struct {
			PageTitle   string
			Form        *LoginForm
			Validator   *Validator
			CurrentPage string
			Flash       string
		}{
			PageTitle:   "Login",
			Form:        form,
			Validator:   validator,
			CurrentPage: "login",
			Flash:       web.sessions.PopString(ctx, "flash"),
		}

		if r.Method != http.MethodPost {
			web.render(w, r, templates, name, data)
			return
		}

		if err := DecodePostForm(r, form); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		form.Validate(validator)
		if !validator.Valid() {
			web.render(w, r, templates, name, data)
			return
		}

		hashErr := bcrypt.CompareHashAndPassword(
			[]byte(web.cfg.Login.PasswordHash), []byte(form.Password))
		if form.Username != web.cfg.Login.Username || hashErr != nil {
			web.log.Warn("failed login attempt", "username", form.Username, "remote", r.RemoteAddr)
			validator.AddError("password", "Incorrect username or password.")
			web.render(w, r, templates, name, data)
			return
		}

		// Renew the session token on privilege change.
		if err := web.sessions.RenewToken(ctx); err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.sessions.Put(ctx, sessionKeyAuthenticated, true)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
}

// handleLogout destroys the session.
func (web *WebApp) handleLogout() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			web.clientError(w, "only POST requests allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := web.sessions.Destroy(r.Context()); err != nil {
			web.ServerError(w, r, err)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}
