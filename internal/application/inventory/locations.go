package inventory

import (
	"fmt"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// LocationCodes códigos de las ubicaciones con papel fijo en el flujo.
// Vienen de configuración; los valores por defecto son REC, LIB, FAB, DEV, NC.
type LocationCodes struct {
	Reception     string // entrada de mercancía
	Released      string // liberado: la única ubicación disponible
	Production    string // pendiente de revisión tras producción
	Returns       string // devoluciones de cliente
	NonConforming string // material no conforme
}

// Locations ubicaciones con papel fijo, resueltas una vez al arrancar.
type Locations struct {
	Reception     *entity.Location
	Released      *entity.Location
	Production    *entity.Location
	Returns       *entity.Location
	NonConforming *entity.Location
}

// ResolveLocations resuelve cada código contra la BD. Falla con
// domain.ErrConfiguration si falta alguna ubicación o si la de liberado
// no está marcada como disponible.
func ResolveLocations(repo repository.LocationRepository, codes LocationCodes) (*Locations, error) {
	resolve := func(code, role string) (*entity.Location, error) {
		loc, err := repo.GetByCode(code)
		if err != nil {
			return nil, fmt.Errorf("ubicación %s (%s): %w", code, role, domain.ErrConfiguration)
		}
		return loc, nil
	}

	var locs Locations
	var err error
	if locs.Reception, err = resolve(codes.Reception, "recepción"); err != nil {
		return nil, err
	}
	if locs.Released, err = resolve(codes.Released, "liberado"); err != nil {
		return nil, err
	}
	if locs.Production, err = resolve(codes.Production, "producción"); err != nil {
		return nil, err
	}
	if locs.Returns, err = resolve(codes.Returns, "devoluciones"); err != nil {
		return nil, err
	}
	if locs.NonConforming, err = resolve(codes.NonConforming, "no conforme"); err != nil {
		return nil, err
	}
	if !locs.Released.IsAvailable {
		return nil, fmt.Errorf("la ubicación %s no está marcada como disponible: %w",
			locs.Released.Code, domain.ErrConfiguration)
	}
	return &locs, nil
}
