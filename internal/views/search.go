package views

import (
	"fmt"

	"github.com/lacteosdev/catalogo-web/internal/models"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// SearchPage renders the search form and, after a query, its results.
func SearchPage(signedInAs, query string, results []models.Product, searched bool, errMsg string) Node {
	body := []Node{
		H1(Text("Buscar productos")),
		flash("", errMsg),
		Form(
			Method("get"),
			Action("/search"),
			Label(Text("Búsqueda")),
			Input(Type("search"), Name("q"), Value(query), Placeholder("nombre o descripción")),
			Button(Type("submit"), Text("Buscar")),
		),
	}

	if searched {
		if len(results) == 0 {
			body = append(body, P(Class("muted"), Text("Sin resultados para \""+query+"\".")))
		} else {
			rows := make([]Node, 0, len(results))
			for _, p := range results {
				rows = append(rows, Tr(
					Td(Text(fmt.Sprint(p.ID))),
					Td(Text(p.Name)),
					Td(Text(p.Description)),
					Td(Text(fmt.Sprintf("%g", p.Quantity))),
				))
			}
			body = append(body, Table(
				THead(Tr(
					Th(Text("ID")),
					Th(Text("Nombre")),
					Th(Text("Descripción")),
					Th(Text("Cantidad")),
				)),
				TBody(Group(rows)),
			))
		}
	}

	return page("Buscar", signedInAs, Group(body))
}
