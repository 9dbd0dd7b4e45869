package views

import (
	"fmt"

	"github.com/lacteosdev/catalogo-web/internal/models"
	"github.com/lacteosdev/catalogo-web/internal/store"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func productTable(rows []store.ProductRow, withActions bool, csrf string) Node {
	if len(rows) == 0 {
		return P(Class("muted"), Text("No hay productos registrados."))
	}

	head := []Node{
		Th(Text("ID")),
		Th(Text("Nombre")),
		Th(Text("Descripción")),
		Th(Text("Cantidad")),
		Th(Text("Unidad")),
		Th(Text("Categoría")),
		Th(Text("Registrado por")),
	}
	if withActions {
		head = append(head, Th(Text("Acciones")))
	}

	body := make([]Node, 0, len(rows))
	for _, row := range rows {
		cells := []Node{
			Td(Text(fmt.Sprint(row.ID))),
			Td(Text(row.Name)),
			Td(Text(row.Description)),
			Td(Text(fmt.Sprintf("%g", row.Quantity))),
			Td(Text(row.UnitName)),
			Td(Text(row.Category)),
			Td(Text(row.CreatedBy)),
		}
		if withActions {
			cells = append(cells, Td(
				Form(
					Method("post"),
					Action("/producto/eliminar"),
					Class("inline"),
					csrfField(csrf),
					Input(Type("hidden"), Name("id"), Value(fmt.Sprint(row.ID))),
					Button(Type("submit"), Class("btn-small"), Text("Eliminar")),
				),
			))
		}
		body = append(body, Tr(Group(cells)))
	}

	return Table(
		THead(Tr(Group(head))),
		TBody(Group(body)),
	)
}

func productFields(cats []models.Category, units []models.Unit) Node {
	catOptions := make([]Node, 0, len(cats))
	for _, cat := range cats {
		catOptions = append(catOptions, Option(Value(fmt.Sprint(cat.ID)), Text(cat.Name)))
	}
	unitOptions := make([]Node, 0, len(units))
	for _, u := range units {
		unitOptions = append(unitOptions, Option(Value(fmt.Sprint(u.ID)), Text(u.Name)))
	}

	return Group([]Node{
		Label(Text("Nombre")),
		Input(Type("text"), Name("name"), Required()),
		Label(Text("Descripción")),
		Input(Type("text"), Name("description")),
		Label(Text("Cantidad")),
		Input(Type("number"), Name("quantity"), Attr("step", "any"), Attr("min", "0"), Required()),
		Label(Text("Unidad de medida")),
		Select(Name("unit_id"), Group(unitOptions)),
		Label(Text("Categoría")),
		Select(Name("category_id"), Group(catOptions)),
	})
}

// DashboardPage is the catalog landing for regular users.
func DashboardPage(signedInAs string, rows []store.ProductRow, msg, errMsg string) Node {
	return page("Catálogo", signedInAs,
		H1(Text("Catálogo de productos")),
		flash(msg, errMsg),
		productTable(rows, false, ""),
	)
}

// AdminPage lists the catalog with the product registration form and
// per-row delete actions.
func AdminPage(signedInAs string, rows []store.ProductRow, cats []models.Category, units []models.Unit, msg, errMsg, csrf string) Node {
	return page("Administración", signedInAs,
		H1(Text("Administración de productos")),
		flash(msg, errMsg),
		Section(
			H2(Text("Registrar producto")),
			Form(
				Method("post"),
				Action("/admin"),
				csrfField(csrf),
				productFields(cats, units),
				Button(Type("submit"), Text("Registrar")),
			),
		),
		Section(
			H2(Text("Productos")),
			productTable(rows, true, csrf),
		),
	)
}

// UpdatePage is the standalone product-update form view.
func UpdatePage(signedInAs string, cats []models.Category, units []models.Unit, msg, errMsg, csrf string) Node {
	return page("Actualizar producto", signedInAs,
		H1(Text("Actualizar producto")),
		flash(msg, errMsg),
		Form(
			Method("post"),
			Action("/producto/actualizar"),
			csrfField(csrf),
			Label(Text("ID del producto")),
			Input(Type("number"), Name("id"), Required()),
			productFields(cats, units),
			Button(Type("submit"), Text("Actualizar")),
		),
	)
}
