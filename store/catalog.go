package store

import (
	"context"

	"gorm.io/gorm"
)

// Catalog repositories. These tables are shared reference data, readable by
// any authenticated user and not RA-scoped.

func (s *Store) ListCursos(ctx context.Context) ([]Curso, error) {
	var out []Curso
	if err := s.db.WithContext(ctx).Order("nome").Find(&out).Error; err != nil {
		return nil, mapError("list_cursos", "curso", err)
	}
	return out, nil
}

func (s *Store) ListDisciplinas(ctx context.Context) ([]Disciplina, error) {
	var out []Disciplina
	if err := s.db.WithContext(ctx).Order("nome").Find(&out).Error; err != nil {
		return nil, mapError("list_disciplinas", "disciplina", err)
	}
	return out, nil
}

func (s *Store) CreateDisciplina(ctx context.Context, d *Disciplina) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return mapError("create_disciplina", "disciplina", err)
	}
	return nil
}

// LinkCursoDisciplina places a subject into a course at a module.
func (s *Store) LinkCursoDisciplina(ctx context.Context, link *CursoDisciplina) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		return mapError("link_curso_disciplina", "curso_disciplina", err)
	}
	return nil
}

// UnlinkCursoDisciplina removes a subject from a course.
func (s *Store) UnlinkCursoDisciplina(ctx context.Context, cursoID, disciplinaID uint) error {
	res := s.db.WithContext(ctx).
		Where("id_curso = ? AND id_disciplina = ?", cursoID, disciplinaID).
		Delete(&CursoDisciplina{})
	if res.Error != nil {
		return mapError("unlink_curso_disciplina", "curso_disciplina", res.Error)
	}
	if res.RowsAffected == 0 {
		return mapError("unlink_curso_disciplina", "curso_disciplina", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListDisciplinasPorCurso returns the subjects linked to a course, optionally
// narrowed to a module when modulo > 0.
func (s *Store) ListDisciplinasPorCurso(ctx context.Context, cursoID uint, modulo int) ([]Disciplina, error) {
	q := s.db.WithContext(ctx).
		Joins("JOIN curso_disciplina cd ON cd.id_disciplina = disciplina.id_disciplina").
		Where("cd.id_curso = ?", cursoID)
	if modulo > 0 {
		q = q.Where("cd.modulo = ?", modulo)
	}
	var out []Disciplina
	if err := q.Order("disciplina.nome").Find(&out).Error; err != nil {
		return nil, mapError("list_disciplinas_curso", "disciplina", err)
	}
	return out, nil
}

func (s *Store) ListDocentes(ctx context.Context) ([]Docente, error) {
	var out []Docente
	if err := s.db.WithContext(ctx).Order("nome").Find(&out).Error; err != nil {
		return nil, mapError("list_docentes", "docente", err)
	}
	return out, nil
}

func (s *Store) CreateDocente(ctx context.Context, d *Docente) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return mapError("create_docente", "docente", err)
	}
	return nil
}

func (s *Store) ListDiscentes(ctx context.Context) ([]Discente, error) {
	var out []Discente
	if err := s.db.WithContext(ctx).Order("nome").Find(&out).Error; err != nil {
		return nil, mapError("list_discentes", "discente", err)
	}
	return out, nil
}

func (s *Store) CreateDiscente(ctx context.Context, d *Discente) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return mapError("create_discente", "discente", err)
	}
	return nil
}

func (s *Store) ListTiposData(ctx context.Context) ([]TipoData, error) {
	var out []TipoData
	if err := s.db.WithContext(ctx).Order("id_tipo_data").Find(&out).Error; err != nil {
		return nil, mapError("list_tipos_data", "tipo_data", err)
	}
	return out, nil
}

func (s *Store) CreateTipoData(ctx context.Context, t *TipoData) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return mapError("create_tipo_data", "tipo_data", err)
	}
	return nil
}

// ListDisciplinaDocentes returns the subject/teacher assignments, optionally
// narrowed to one subject when disciplinaID > 0.
func (s *Store) ListDisciplinaDocentes(ctx context.Context, disciplinaID uint) ([]DisciplinaDocente, error) {
	q := s.db.WithContext(ctx)
	if disciplinaID > 0 {
		q = q.Where("id_disciplina = ?", disciplinaID)
	}
	var out []DisciplinaDocente
	if err := q.Order("id_disciplina, id_docente").Find(&out).Error; err != nil {
		return nil, mapError("list_disciplina_docentes", "disciplina_docente", err)
	}
	return out, nil
}

// ListDocentesPorDisciplina returns the teachers assigned to a subject.
func (s *Store) ListDocentesPorDisciplina(ctx context.Context, disciplinaID uint) ([]Docente, error) {
	var out []Docente
	err := s.db.WithContext(ctx).
		Joins("JOIN disciplina_docente dd ON dd.id_docente = docente.id_docente").
		Where("dd.id_disciplina = ?", disciplinaID).
		Order("docente.nome").
		Find(&out).Error
	if err != nil {
		return nil, mapError("list_docentes_disciplina", "docente", err)
	}
	return out, nil
}

// LinkDisciplinaDocente assigns a teacher to a subject.
func (s *Store) LinkDisciplinaDocente(ctx context.Context, link *DisciplinaDocente) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		return mapError("link_disciplina_docente", "disciplina_docente", err)
	}
	return nil
}

// UnlinkDisciplinaDocente removes a teacher assignment from a subject.
func (s *Store) UnlinkDisciplinaDocente(ctx context.Context, disciplinaID, docenteID uint) error {
	res := s.db.WithContext(ctx).
		Where("id_disciplina = ? AND id_docente = ?", disciplinaID, docenteID).
		Delete(&DisciplinaDocente{})
	if res.Error != nil {
		return mapError("unlink_disciplina_docente", "disciplina_docente", res.Error)
	}
	if res.RowsAffected == 0 {
		return mapError("unlink_disciplina_docente", "disciplina_docente", gorm.ErrRecordNotFound)
	}
	return nil
}
