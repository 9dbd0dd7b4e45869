package views

import (
	"fmt"

	"github.com/lacteosdev/catalogo-web/internal/store"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// MailPage is the "share product by email" form: a product selector and
// the destination address of a registered user.
func MailPage(signedInAs string, rows []store.ProductRow, msg, errMsg, csrf string) Node {
	options := make([]Node, 0, len(rows))
	for _, row := range rows {
		options = append(options, Option(
			Value(fmt.Sprint(row.ID)),
			Text(fmt.Sprintf("%s (%s)", row.Name, row.Category)),
		))
	}

	return page("Enviar por correo", signedInAs,
		H1(Text("Enviar producto por correo")),
		flash(msg, errMsg),
		Form(
			Method("post"),
			Action("/producto/enviar_correo"),
			csrfField(csrf),
			Label(Text("Producto")),
			Select(Name("id"), Group(options)),
			Label(Text("Correo del destinatario")),
			Input(Type("email"), Name("to"), Required()),
			Button(Type("submit"), Text("Enviar")),
		),
	)
}
