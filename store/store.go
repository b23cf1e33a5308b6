package store

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/vida-academica/backend/errors"
)

// Store bundles the repositories over one gorm handle.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Models lists every model the store persists, in migration order. The
// refresh-token ledger migrates its own table separately.
func Models() []any {
	return []any{
		&Instituicao{},
		&Curso{},
		&Disciplina{},
		&CursoDisciplina{},
		&Usuario{},
		&Docente{},
		&DisciplinaDocente{},
		&Discente{},
		&TipoData{},
		&Nota{},
		&Horario{},
		&Calendario{},
		&Anotacao{},
	}
}

// mapError folds a gorm error into the service error taxonomy.
func mapError(operation, resource string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.AlreadyExists(resource)
	default:
		return apperrors.Database(operation, err)
	}
}
