package router

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/contrib/renders/multitemplate"
	"github.com/gin-gonic/gin"

	"github.com/rVladislavrr/codes/internal/handler"
	"github.com/rVladislavrr/codes/pkg/huffman"
)

//go:embed templates/*.html
var templates embed.FS

type Dependencies struct {
	ArchiveHandler *handler.ArchiveHandler
}

func Register(r *gin.Engine, d Dependencies) {
	r.HTMLRender = htmlRender()

	// 공용 라우트
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/", d.ArchiveHandler.Index)

	// v1 그룹
	v1 := r.Group("/api/v1")
	{
		archives := v1.Group("/archives")
		{
			archives.POST("", d.ArchiveHandler.Create)
			archives.GET("", d.ArchiveHandler.List)
			archives.GET("/:id", d.ArchiveHandler.GetByID)
			archives.GET("/:id/container", d.ArchiveHandler.Container)
			archives.GET("/:id/content", d.ArchiveHandler.Content)
			archives.DELETE("/:id", d.ArchiveHandler.Delete)
		}
		v1.POST("/encode", d.ArchiveHandler.Encode)
		v1.POST("/decode", d.ArchiveHandler.Decode)
	}
}

func htmlRender() multitemplate.Render {
	funcs := template.FuncMap{
		"bin": huffman.CompressedName,
	}
	render := multitemplate.New()
	render.Add("index.html", template.Must(
		template.New("index.html").Funcs(funcs).ParseFS(templates, "templates/index.html"),
	))
	return render
}
