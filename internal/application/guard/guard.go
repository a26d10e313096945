// Package guard decide la navegación a partir del estado de sesión.
// Es una función pura: la decisión queda separada del efecto de
// navegar, que ejecuta quien la invoca (el modelo raíz del TUI).
package guard

import "github.com/tu-usuario/taller-tickets/internal/domain/entity"

// Segmentos de ruta del cliente. SegmentoAuth agrupa login y registro;
// el resto son los paneles por rol.
const (
	SegmentoAuth      = "auth"
	SegmentoTabs      = "(tabs)"
	RutaLogin         = "/auth/login"
	RutaPanelAdmin    = "/admin"
	RutaPanelTecnico  = "/tecnico"
	RutaPanelUsuario  = "/(tabs)"
)

// Destino es una orden de navegación.
type Destino struct {
	Ruta string
}

// Decide evalúa (user, cargando, segmento) y devuelve el destino de
// navegación, o nil si no hay que navegar. Es total, síncrona e
// idempotente: con los mismos inputs y estando ya en el destino, la
// decisión colapsa a nil, así re-evaluarla en cada cambio de estado no
// produce navegaciones redundantes.
func Decide(user *entity.User, cargando bool, segmento string) *Destino {
	if cargando {
		// Restaurando sesión: arriba se muestra el indicador de carga.
		return nil
	}

	enAuth := segmento == SegmentoAuth

	if user == nil {
		if enAuth {
			return nil
		}
		return &Destino{Ruta: RutaLogin}
	}

	if !enAuth {
		return nil
	}
	return &Destino{Ruta: landingPorRol(user.Rol)}
}

// landingPorRol selecciona la pantalla inicial por match exacto de rol;
// cualquier rol desconocido cae al panel de recepción/usuario.
func landingPorRol(rol string) string {
	switch rol {
	case entity.RolAdmin:
		return RutaPanelAdmin
	case entity.RolTecnico:
		return RutaPanelTecnico
	default:
		return RutaPanelUsuario
	}
}
