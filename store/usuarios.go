package store

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// CreateUsuario registers a new user. The institution is resolved by name and
// created on first use; RA, email and username uniqueness is enforced by the
// schema.
func (s *Store) CreateUsuario(ctx context.Context, u *Usuario, nomeInstituicao string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inst Instituicao
		if err := tx.Where(Instituicao{Nome: nomeInstituicao}).
			FirstOrCreate(&inst).Error; err != nil {
			return mapError("create_instituicao", "instituicao", err)
		}
		u.InstituicaoID = inst.ID
		if err := tx.Create(u).Error; err != nil {
			return mapError("create_usuario", "usuario", err)
		}
		return nil
	})
}

// GetUsuarioByRA loads a user with institution and course preloaded.
func (s *Store) GetUsuarioByRA(ctx context.Context, ra string) (*Usuario, error) {
	var u Usuario
	err := s.db.WithContext(ctx).
		Preload("Instituicao").
		Preload("Curso").
		First(&u, "ra = ?", ra).Error
	if err != nil {
		return nil, mapError("get_usuario", "usuario", err)
	}
	return &u, nil
}

// UsuarioUpdate carries the mutable profile fields. Identity fields (RA,
// username, email) are immutable after registration.
type UsuarioUpdate struct {
	Nome         *string
	DtNascimento *time.Time
	TelCelular   *string
	CursoID      *uint
	Modulo       *int
	Bimestre     *int
}

// UpdateUsuario applies a partial profile update to the caller's own record.
func (s *Store) UpdateUsuario(ctx context.Context, ra string, upd UsuarioUpdate) (*Usuario, error) {
	values := map[string]any{}
	if upd.Nome != nil {
		values["nome"] = *upd.Nome
	}
	if upd.DtNascimento != nil {
		values["dt_nascimento"] = *upd.DtNascimento
	}
	if upd.TelCelular != nil {
		values["tel_celular"] = *upd.TelCelular
	}
	if upd.CursoID != nil {
		values["id_curso"] = *upd.CursoID
	}
	if upd.Modulo != nil {
		values["modulo"] = *upd.Modulo
	}
	if upd.Bimestre != nil {
		values["bimestre"] = *upd.Bimestre
	}
	if len(values) > 0 {
		res := s.db.WithContext(ctx).Model(&Usuario{}).
			Where("ra = ?", ra).Updates(values)
		if res.Error != nil {
			return nil, mapError("update_usuario", "usuario", res.Error)
		}
	}
	return s.GetUsuarioByRA(ctx, ra)
}

// UpdateSenhaHash replaces the stored password hash. This is the only code
// path that mutates it after registration.
func (s *Store) UpdateSenhaHash(ctx context.Context, ra, newHash string) error {
	res := s.db.WithContext(ctx).Model(&Usuario{}).
		Where("ra = ?", ra).Update("senha_hash", newHash)
	if res.Error != nil {
		return mapError("update_senha", "usuario", res.Error)
	}
	if res.RowsAffected == 0 {
		return mapError("update_senha", "usuario", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteUsuario removes an account and every record it owns. The whole
// cascade runs in one transaction so a failure leaves the account intact.
func (s *Store) DeleteUsuario(ctx context.Context, ra string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []any{&Nota{}, &Horario{}, &Calendario{}, &Anotacao{}}
		for _, model := range owned {
			if err := tx.Where("ra = ?", ra).Delete(model).Error; err != nil {
				return mapError("delete_usuario", "usuario", err)
			}
		}
		res := tx.Where("ra = ?", ra).Delete(&Usuario{})
		if res.Error != nil {
			return mapError("delete_usuario", "usuario", res.Error)
		}
		if res.RowsAffected == 0 {
			return mapError("delete_usuario", "usuario", gorm.ErrRecordNotFound)
		}
		return nil
	})
}
