// Package store holds the GORM models and repositories for the academic
// domain. Every protected record carries the RA of its owning user; list
// queries filter by RA in SQL so a foreign record is never even loaded.
package store

import "time"

// Instituicao is an institution a user belongs to.
type Instituicao struct {
	ID   uint   `gorm:"column:id_instituicao;primaryKey" json:"id_instituicao"`
	Nome string `gorm:"size:80;not null" json:"nome"`
}

func (Instituicao) TableName() string { return "instituicao" }

// Usuario is the identity record. RA, email and username are unique; the
// password hash is only ever written by registration and the password-change
// flow.
type Usuario struct {
	ID            uint       `gorm:"column:id_usuario;primaryKey" json:"id_usuario"`
	RA            string     `gorm:"column:ra;size:13;uniqueIndex;not null" json:"ra"`
	Nome          string     `gorm:"size:50;not null" json:"nome"`
	Email         string     `gorm:"size:40;uniqueIndex;not null" json:"email"`
	Username      string     `gorm:"size:20;uniqueIndex;not null" json:"username"`
	SenhaHash     string     `gorm:"column:senha_hash;size:100;not null" json:"-"`
	InstituicaoID uint       `gorm:"column:id_instituicao;not null" json:"id_instituicao"`
	DtNascimento  *time.Time `gorm:"column:dt_nascimento" json:"dt_nascimento,omitempty"`
	TelCelular    *string    `gorm:"column:tel_celular;size:15" json:"tel_celular,omitempty"`
	CursoID       *uint      `gorm:"column:id_curso" json:"id_curso,omitempty"`
	Modulo        *int       `json:"modulo,omitempty"`
	Bimestre      *int       `json:"bimestre,omitempty"`

	Instituicao *Instituicao `gorm:"foreignKey:InstituicaoID" json:"instituicao,omitempty"`
	Curso       *Curso       `gorm:"foreignKey:CursoID" json:"curso,omitempty"`
}

func (Usuario) TableName() string { return "usuario" }

// Curso is a course offered by an institution.
type Curso struct {
	ID            uint   `gorm:"column:id_curso;primaryKey" json:"id_curso"`
	Nome          string `gorm:"size:80;not null" json:"nome"`
	InstituicaoID uint   `gorm:"column:id_instituicao;not null" json:"id_instituicao"`
}

func (Curso) TableName() string { return "curso" }

// Disciplina is a subject.
type Disciplina struct {
	ID   uint   `gorm:"column:id_disciplina;primaryKey" json:"id_disciplina"`
	Nome string `gorm:"size:80;not null" json:"nome"`
}

func (Disciplina) TableName() string { return "disciplina" }

// CursoDisciplina links a subject into a course at a given module.
type CursoDisciplina struct {
	CursoID      uint `gorm:"column:id_curso;primaryKey" json:"id_curso"`
	DisciplinaID uint `gorm:"column:id_disciplina;primaryKey" json:"id_disciplina"`
	Modulo       int  `gorm:"not null" json:"modulo"`
}

func (CursoDisciplina) TableName() string { return "curso_disciplina" }

// Docente is an instructor.
type Docente struct {
	ID    uint   `gorm:"column:id_docente;primaryKey" json:"id_docente"`
	Nome  string `gorm:"size:50;not null" json:"nome"`
	Email string `gorm:"size:40;uniqueIndex;not null" json:"email"`
}

func (Docente) TableName() string { return "docente" }

// DisciplinaDocente links an instructor to a subject.
type DisciplinaDocente struct {
	DisciplinaID uint `gorm:"column:id_disciplina;primaryKey" json:"id_disciplina"`
	DocenteID    uint `gorm:"column:id_docente;primaryKey" json:"id_docente"`
}

func (DisciplinaDocente) TableName() string { return "disciplina_docente" }

// Discente is a student contact entry (no login).
type Discente struct {
	ID         uint    `gorm:"column:id_discente;primaryKey" json:"id_discente"`
	Nome       string  `gorm:"size:50;not null" json:"nome"`
	Email      string  `gorm:"size:40;uniqueIndex;not null" json:"email"`
	TelCelular *string `gorm:"column:tel_celular;size:15" json:"tel_celular,omitempty"`
	CursoID    *uint   `gorm:"column:id_curso" json:"id_curso,omitempty"`
}

func (Discente) TableName() string { return "discente" }

// TipoData classifies calendar dates (class day, holiday, absence).
type TipoData struct {
	ID   uint   `gorm:"column:id_tipo_data;primaryKey" json:"id_tipo_data"`
	Nome string `gorm:"size:10;not null" json:"nome"`
}

func (TipoData) TableName() string { return "tipo_data" }

// Nota is an assessment grade, owned by RA.
type Nota struct {
	ID           uint     `gorm:"column:id_nota;primaryKey" json:"id_nota"`
	RA           string   `gorm:"column:ra;size:13;index;not null" json:"ra"`
	DisciplinaID uint     `gorm:"column:id_disciplina;not null" json:"id_disciplina"`
	Bimestre     int      `gorm:"not null" json:"bimestre"`
	Nota         *float64 `gorm:"type:numeric(4,2)" json:"nota"`
}

func (Nota) TableName() string { return "nota" }

// Horario is one weekday's class schedule, owned by RA. Up to four subject
// slots per day, matching the original timetable layout.
type Horario struct {
	ID            uint   `gorm:"column:id_horario;primaryKey" json:"id_horario"`
	RA            string `gorm:"column:ra;size:13;index;not null" json:"ra"`
	DiaSemana     int    `gorm:"column:dia_semana;not null" json:"dia_semana"`
	Disciplina1ID *uint  `gorm:"column:id_disciplina_1" json:"id_disciplina_1,omitempty"`
	Disciplina2ID *uint  `gorm:"column:id_disciplina_2" json:"id_disciplina_2,omitempty"`
	Disciplina3ID *uint  `gorm:"column:id_disciplina_3" json:"id_disciplina_3,omitempty"`
	Disciplina4ID *uint  `gorm:"column:id_disciplina_4" json:"id_disciplina_4,omitempty"`
}

func (Horario) TableName() string { return "horario" }

// Calendario is an academic calendar entry, owned by RA.
type Calendario struct {
	ID         uint      `gorm:"column:id_data_evento;primaryKey" json:"id_data_evento"`
	RA         string    `gorm:"column:ra;size:13;index;not null" json:"ra"`
	DataEvento time.Time `gorm:"column:data_evento;not null" json:"data_evento"`
	TipoDataID uint      `gorm:"column:id_tipo_data;not null" json:"id_tipo_data"`
}

func (Calendario) TableName() string { return "calendario" }

// Anotacao is a user note, owned by RA.
type Anotacao struct {
	ID         uint      `gorm:"column:id_anotacao;primaryKey" json:"id_anotacao"`
	RA         string    `gorm:"column:ra;size:13;index;not null" json:"ra"`
	Titulo     string    `gorm:"size:50;not null" json:"titulo"`
	Anotacao   string    `gorm:"size:255;not null" json:"anotacao"`
	DtAnotacao time.Time `gorm:"column:dt_anotacao;not null" json:"dt_anotacao"`
}

func (Anotacao) TableName() string { return "anotacao" }
