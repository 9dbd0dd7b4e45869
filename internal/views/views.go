package views

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Render writes a gomponents tree as the response body.
func Render(c echo.Context, status int, node Node) error {
	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.HTMLBlob(status, buf.Bytes())
}

type navItem struct {
	Label string
	Href  string
}

var navItems = []navItem{
	{Label: "Catálogo", Href: "/user"},
	{Label: "Administración", Href: "/admin"},
	{Label: "Buscar", Href: "/search"},
	{Label: "Correo", Href: "/correo"},
}

// page is the shared shell for authenticated views: nav, signed-in
// banner and a logout link.
func page(title, signedInAs string, body ...Node) Node {
	nav := make([]Node, 0, len(navItems)+1)
	for _, item := range navItems {
		nav = append(nav, A(Href(item.Href), Class("nav-link"), Text(item.Label)))
	}
	nav = append(nav, A(Href("/logout"), Class("nav-link"), Text("Salir")))

	return shell(title,
		Header(
			Class("topbar"),
			Strong(Text("Lácteos del Valle")),
			Nav(Class("nav"), Group(nav)),
			P(Class("muted"), Text("Sesión: "+signedInAs)),
		),
		Main(Class("content"), Group(body)),
	)
}

// publicPage is the shell for pages reachable without a session.
func publicPage(title string, body ...Node) Node {
	return shell(title,
		Header(
			Class("topbar"),
			Strong(Text("Lácteos del Valle")),
			Nav(Class("nav"),
				A(Href("/"), Class("nav-link"), Text("Inicio")),
				A(Href("/login"), Class("nav-link"), Text("Entrar")),
				A(Href("/register"), Class("nav-link"), Text("Registro")),
			),
		),
		Main(Class("content"), Group(body)),
	)
}

func shell(title string, body ...Node) Node {
	return HTML(
		Lang("es"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Lácteos del Valle")),
			Link(Rel("stylesheet"), Href("https://cdn.jsdelivr.net/npm/@picocss/pico@2/css/pico.min.css")),
		),
		Body(Group(body)),
	)
}

func flash(msg, errMsg string) Node {
	switch {
	case errMsg != "":
		return P(Class("error"), Text(errMsg))
	case msg != "":
		return P(Class("ok"), Text(msg))
	}
	return nil
}

func csrfField(token string) Node {
	return Input(Type("hidden"), Name("csrf_token"), Value(token))
}

// DeniedPage is the explicit access-denied response for admin-gated
// pages reached with a non-admin session.
func DeniedPage(signedInAs string) Node {
	return page("Acceso denegado", signedInAs,
		H1(Text("Acceso denegado")),
		P(Text("Esta sección requiere permisos de administrador.")),
		P(A(Href("/user"), Text("Volver al catálogo"))),
	)
}

// ErrorPage is the generic failure view for store or delivery errors.
func ErrorPage(signedInAs, msg string) Node {
	return page("Error", signedInAs,
		H1(Text("Algo salió mal")),
		P(Text(msg)),
		P(A(Href("/user"), Text("Volver al catálogo"))),
	)
}
