package views

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func IndexPage() Node {
	return publicPage("Inicio",
		H1(Text("Lácteos del Valle")),
		P(Text("Catálogo interno de productos lácteos. Inicie sesión para continuar.")),
		P(
			A(Href("/login"), Class("btn"), Text("Iniciar sesión")),
			Text(" "),
			A(Href("/register"), Class("btn"), Text("Crear cuenta")),
		),
	)
}

func LoginPage(errMsg, csrf string) Node {
	return publicPage("Iniciar sesión",
		H1(Text("Iniciar sesión")),
		flash("", errMsg),
		Form(
			Method("post"),
			Action("/login"),
			csrfField(csrf),
			Label(Text("Correo electrónico")),
			Input(Type("email"), Name("email"), Required()),
			Label(Text("Contraseña")),
			Input(Type("password"), Name("password"), Required()),
			Button(Type("submit"), Text("Entrar")),
		),
		P(A(Href("/register"), Text("¿No tiene cuenta? Regístrese"))),
	)
}

func RegisterPage(msg, errMsg, csrf string) Node {
	return publicPage("Registro",
		H1(Text("Crear cuenta")),
		flash(msg, errMsg),
		Form(
			Method("post"),
			Action("/register"),
			csrfField(csrf),
			Label(Text("Nombre")),
			Input(Type("text"), Name("name"), Required()),
			Label(Text("Correo electrónico")),
			Input(Type("email"), Name("email"), Required()),
			Label(Text("Contraseña")),
			Input(Type("password"), Name("password"), Required()),
			Button(Type("submit"), Text("Registrarse")),
		),
		P(A(Href("/login"), Text("¿Ya tiene cuenta? Inicie sesión"))),
	)
}
