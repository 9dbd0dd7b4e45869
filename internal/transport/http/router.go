package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/lacteosdev/catalogo-web/internal/handlers"
	"github.com/lacteosdev/catalogo-web/internal/session"
)

type Deps struct {
	DB             *gorm.DB
	Sessions       *session.Manager
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	MailHandler    *handlers.MailHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.GET("/", d.AuthHandler.Home)
	e.GET("/register", d.AuthHandler.RegisterForm)
	e.POST("/register", d.AuthHandler.Register)
	e.GET("/login", d.AuthHandler.LoginForm)
	e.POST("/login", d.AuthHandler.Login)
	e.GET("/logout", d.AuthHandler.Logout)

	user := e.Group("", d.Sessions.RequireUser)
	user.GET("/user", d.ProductHandler.Dashboard)
	user.POST("/registrar_producto", d.ProductHandler.Create)
	user.POST("/producto/actualizar", d.ProductHandler.Update)
	user.POST("/update", d.ProductHandler.Update)
	user.POST("/producto/eliminar", d.ProductHandler.Delete)
	user.POST("/delete", d.ProductHandler.Delete)
	user.GET("/updat", d.ProductHandler.UpdateForm)
	user.GET("/search", d.SearchHandler.Page)
	user.GET("/correo", d.MailHandler.Form)
	user.POST("/correo", d.MailHandler.Send)
	user.POST("/producto/enviar_correo", d.MailHandler.Send)

	admin := e.Group("/admin", d.Sessions.RequireAdmin)
	admin.GET("", d.ProductHandler.Admin)
	admin.POST("", d.ProductHandler.AdminCreate)
}
