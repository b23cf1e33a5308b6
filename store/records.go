package store

import "context"

// Record repositories for the RA-owned tables. List queries filter by RA in
// SQL; single-record reads return the row as stored so the caller can compare
// the owner RA against the authenticated identity before acting on it.

// --- Notas ---

func (s *Store) ListNotas(ctx context.Context, ra string) ([]Nota, error) {
	var out []Nota
	err := s.db.WithContext(ctx).
		Where("ra = ?", ra).
		Order("id_disciplina, bimestre").
		Find(&out).Error
	if err != nil {
		return nil, mapError("list_notas", "nota", err)
	}
	return out, nil
}

func (s *Store) GetNota(ctx context.Context, id uint) (*Nota, error) {
	var n Nota
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, mapError("get_nota", "nota", err)
	}
	return &n, nil
}

func (s *Store) CreateNota(ctx context.Context, n *Nota) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return mapError("create_nota", "nota", err)
	}
	return nil
}

func (s *Store) UpdateNota(ctx context.Context, n *Nota) error {
	if err := s.db.WithContext(ctx).Save(n).Error; err != nil {
		return mapError("update_nota", "nota", err)
	}
	return nil
}

func (s *Store) DeleteNota(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&Nota{}, id).Error; err != nil {
		return mapError("delete_nota", "nota", err)
	}
	return nil
}

// --- Horarios ---

func (s *Store) ListHorarios(ctx context.Context, ra string) ([]Horario, error) {
	var out []Horario
	err := s.db.WithContext(ctx).
		Where("ra = ?", ra).
		Order("dia_semana").
		Find(&out).Error
	if err != nil {
		return nil, mapError("list_horarios", "horario", err)
	}
	return out, nil
}

func (s *Store) GetHorario(ctx context.Context, id uint) (*Horario, error) {
	var h Horario
	if err := s.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, mapError("get_horario", "horario", err)
	}
	return &h, nil
}

func (s *Store) CreateHorario(ctx context.Context, h *Horario) error {
	if err := s.db.WithContext(ctx).Create(h).Error; err != nil {
		return mapError("create_horario", "horario", err)
	}
	return nil
}

func (s *Store) UpdateHorario(ctx context.Context, h *Horario) error {
	if err := s.db.WithContext(ctx).Save(h).Error; err != nil {
		return mapError("update_horario", "horario", err)
	}
	return nil
}

func (s *Store) DeleteHorario(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&Horario{}, id).Error; err != nil {
		return mapError("delete_horario", "horario", err)
	}
	return nil
}

// --- Calendario ---

func (s *Store) ListCalendario(ctx context.Context, ra string) ([]Calendario, error) {
	var out []Calendario
	err := s.db.WithContext(ctx).
		Where("ra = ?", ra).
		Order("data_evento").
		Find(&out).Error
	if err != nil {
		return nil, mapError("list_calendario", "calendario", err)
	}
	return out, nil
}

func (s *Store) GetCalendario(ctx context.Context, id uint) (*Calendario, error) {
	var c Calendario
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, mapError("get_calendario", "calendario", err)
	}
	return &c, nil
}

func (s *Store) CreateCalendario(ctx context.Context, c *Calendario) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return mapError("create_calendario", "calendario", err)
	}
	return nil
}

func (s *Store) UpdateCalendario(ctx context.Context, c *Calendario) error {
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return mapError("update_calendario", "calendario", err)
	}
	return nil
}

func (s *Store) DeleteCalendario(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&Calendario{}, id).Error; err != nil {
		return mapError("delete_calendario", "calendario", err)
	}
	return nil
}

// --- Anotacoes ---

func (s *Store) ListAnotacoes(ctx context.Context, ra string) ([]Anotacao, error) {
	var out []Anotacao
	err := s.db.WithContext(ctx).
		Where("ra = ?", ra).
		Order("dt_anotacao DESC").
		Find(&out).Error
	if err != nil {
		return nil, mapError("list_anotacoes", "anotacao", err)
	}
	return out, nil
}

func (s *Store) GetAnotacao(ctx context.Context, id uint) (*Anotacao, error) {
	var a Anotacao
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, mapError("get_anotacao", "anotacao", err)
	}
	return &a, nil
}

func (s *Store) CreateAnotacao(ctx context.Context, a *Anotacao) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return mapError("create_anotacao", "anotacao", err)
	}
	return nil
}

func (s *Store) UpdateAnotacao(ctx context.Context, a *Anotacao) error {
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return mapError("update_anotacao", "anotacao", err)
	}
	return nil
}

func (s *Store) DeleteAnotacao(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&Anotacao{}, id).Error; err != nil {
		return mapError("delete_anotacao", "anotacao", err)
	}
	return nil
}
