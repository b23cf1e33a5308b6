package handlers

import "github.com/gin-gonic/gin"

// Registry groups the handlers and mounts the route table.
type Registry struct {
	Auth        *AuthHandler
	Usuarios    *UsuarioHandler
	Records     *RecordHandler
	Catalog     *CatalogHandler
	Health      gin.HandlerFunc
	RequireAuth gin.HandlerFunc
}

// Register mounts every route. Login, refresh, logout, registration and the
// health check are open; everything else sits behind the bearer middleware.
func (reg *Registry) Register(e *gin.Engine) {
	e.GET("/health", reg.Health)

	e.POST("/login", reg.Auth.Login)
	e.POST("/refresh", reg.Auth.Refresh)
	e.POST("/logout", reg.Auth.Logout)
	e.POST("/usuarios", reg.Usuarios.Register)

	protected := e.Group("/", reg.RequireAuth)

	protected.GET("/usuarios/me", reg.Usuarios.Me)
	protected.PUT("/usuarios/me", reg.Usuarios.UpdateMe)
	protected.PUT("/usuarios/me/senha", reg.Usuarios.ChangeSenha)
	protected.DELETE("/usuarios/me", reg.Usuarios.DeleteMe)

	protected.GET("/notas", reg.Records.ListNotas)
	protected.POST("/notas", reg.Records.CreateNota)
	protected.GET("/notas/:id", reg.Records.GetNota)
	protected.PUT("/notas/:id", reg.Records.UpdateNota)
	protected.DELETE("/notas/:id", reg.Records.DeleteNota)

	protected.GET("/horarios", reg.Records.ListHorarios)
	protected.POST("/horarios", reg.Records.CreateHorario)
	protected.PUT("/horarios/:id", reg.Records.UpdateHorario)
	protected.DELETE("/horarios/:id", reg.Records.DeleteHorario)

	protected.GET("/calendario", reg.Records.ListCalendario)
	protected.POST("/calendario", reg.Records.CreateCalendario)
	protected.PUT("/calendario/:id", reg.Records.UpdateCalendario)
	protected.DELETE("/calendario/:id", reg.Records.DeleteCalendario)

	protected.GET("/anotacoes", reg.Records.ListAnotacoes)
	protected.POST("/anotacoes", reg.Records.CreateAnotacao)
	protected.GET("/anotacoes/:id", reg.Records.GetAnotacao)
	protected.PUT("/anotacoes/:id", reg.Records.UpdateAnotacao)
	protected.DELETE("/anotacoes/:id", reg.Records.DeleteAnotacao)

	protected.GET("/cursos", reg.Catalog.ListCursos)
	protected.GET("/disciplinas", reg.Catalog.ListDisciplinas)
	protected.POST("/disciplinas", reg.Catalog.CreateDisciplina)
	protected.GET("/disciplinas/:id/docentes", reg.Catalog.ListDocentesDaDisciplina)
	protected.GET("/docentes", reg.Catalog.ListDocentes)
	protected.POST("/docentes", reg.Catalog.CreateDocente)
	protected.GET("/discentes", reg.Catalog.ListDiscentes)
	protected.POST("/discentes", reg.Catalog.CreateDiscente)
	protected.GET("/tipos-data", reg.Catalog.ListTiposData)
	protected.POST("/tipos-data", reg.Catalog.CreateTipoData)

	protected.POST("/curso-disciplina", reg.Catalog.LinkCursoDisciplina)
	protected.DELETE("/curso-disciplina/:curso/:disciplina", reg.Catalog.UnlinkCursoDisciplina)

	protected.GET("/disciplina-docente", reg.Catalog.ListDisciplinaDocentes)
	protected.POST("/disciplina-docente", reg.Catalog.LinkDisciplinaDocente)
	protected.DELETE("/disciplina-docente/:disciplina/:docente", reg.Catalog.UnlinkDisciplinaDocente)
}
