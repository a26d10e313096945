// Package session implementa el estado compartido de autenticación del
// cliente: usuario actual, token y caché de tickets. Es la única fuente
// de verdad que consumen todas las pantallas.
//
// Máquina de estados del ciclo de vida:
//
//	Inicial → Restaurando → {Autenticado, Anonimo}
//	Autenticado → Anonimo   (logout, o 401 al refrescar tickets)
//
// El objeto es de un solo escritor: toda mutación pasa por el mutex y
// las lecturas son snapshots copiados, nunca referencias al estado vivo.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/taller-tickets/pkg/jwt"
	"github.com/tu-usuario/taller-tickets/pkg/logger"
)

// Estado de autenticación de la sesión.
type Estado int

const (
	EstadoInicial Estado = iota
	EstadoRestaurando
	EstadoAutenticado
	EstadoAnonimo
)

// String para logs y tests.
func (e Estado) String() string {
	switch e {
	case EstadoInicial:
		return "inicial"
	case EstadoRestaurando:
		return "restaurando"
	case EstadoAutenticado:
		return "autenticado"
	case EstadoAnonimo:
		return "anonimo"
	default:
		return "desconocido"
	}
}

// Snapshot es una copia consistente del estado de la sesión. Cargando
// es true mientras la restauración inicial no terminó.
type Snapshot struct {
	Estado   Estado
	Cargando bool
	User     *entity.User
	Token    string
	Tickets  []entity.Ticket
}

// Store es el Session Store: instancia única compartida por todas las
// pantallas.
type Store struct {
	api    API
	tokens TokenStore
	log    *logger.Logger

	mu      sync.Mutex
	estado  Estado
	user    *entity.User
	token   string
	tickets []entity.Ticket

	// cambios notifica a quien observa (el modelo raíz del TUI) que el
	// snapshot cambió. Envío no bloqueante: si nadie escucha, se pierde
	// la señal pero el próximo Snapshot() igual verá el estado nuevo.
	cambios chan struct{}
}

// NewStore construye el Session Store en estado Inicial.
func NewStore(api API, tokens TokenStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		api:     api,
		tokens:  tokens,
		log:     log,
		estado:  EstadoInicial,
		cambios: make(chan struct{}, 1),
	}
}

// Cambios devuelve el canal de notificación de cambios de estado.
func (s *Store) Cambios() <-chan struct{} { return s.cambios }

// Snapshot devuelve una copia del estado actual.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var u *entity.User
	if s.user != nil {
		copia := *s.user
		u = &copia
	}
	tickets := make([]entity.Ticket, len(s.tickets))
	copy(tickets, s.tickets)
	return Snapshot{
		Estado:   s.estado,
		Cargando: s.estado == EstadoInicial || s.estado == EstadoRestaurando,
		User:     u,
		Token:    s.token,
		Tickets:  tickets,
	}
}

func (s *Store) notificar() {
	select {
	case s.cambios <- struct{}{}:
	default:
	}
}

// Restore intenta reconstruir la sesión desde el token persistido.
// Cualquier fallo (token vencido, 401, decode) limpia el token y deja
// la sesión en Anonimo: nunca se arranca con una sesión a medias.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	s.estado = EstadoRestaurando
	s.mu.Unlock()
	s.notificar()

	token, err := s.tokens.Load()
	if err != nil || token == "" {
		s.aAnonimo(false)
		return
	}
	if pkgjwt.Expirado(token) {
		// Token vencido: no vale la pena el round-trip.
		s.aAnonimo(true)
		return
	}

	user, err := s.api.CurrentUser(ctx, token)
	if err != nil || user == nil {
		s.log.Debug().Err(err).Msg("restauración de sesión fallida")
		s.aAnonimo(true)
		return
	}
	tickets, err := s.api.Tickets(ctx, token)
	if err != nil {
		s.log.Debug().Err(err).Msg("tickets no disponibles al restaurar")
		s.aAnonimo(true)
		return
	}

	s.mu.Lock()
	s.estado = EstadoAutenticado
	s.user = user
	s.token = token
	s.tickets = tickets
	s.mu.Unlock()
	s.notificar()
	s.log.Info().Str("email", user.Email).Str("rol", user.Rol).Msg("sesión restaurada")
}

// Login autentica contra el backend y devuelve el usuario ya fusionado.
// El backend devuelve el rol como campo hermano del user; aquí se
// fusiona dentro del user y el valor del nivel superior siempre gana.
// Los callers usan este valor de retorno en vez de releer el snapshot:
// la visibilidad del estado nuevo no está garantizada síncronamente.
func (s *Store) Login(ctx context.Context, creds dto.LoginRequest) (*entity.User, error) {
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	user := resp.User
	user.Rol = resp.Rol // merge deliberado de la forma de la API

	if err := s.tokens.Save(resp.Token); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo persistir el token")
	}

	s.mu.Lock()
	s.estado = EstadoAutenticado
	s.user = &user
	s.token = resp.Token
	s.tickets = nil
	s.mu.Unlock()
	s.notificar()

	// Refresco inmediato de la caché con el token recién emitido: el
	// persistido puede no estar visible aún para el cliente HTTP.
	s.FetchUserTickets(ctx, resp.Token)

	copia := user
	return &copia, nil
}

// Register registra un usuario nuevo. No hace auto-login: la pantalla
// vuelve al login después.
func (s *Store) Register(ctx context.Context, in dto.RegisterRequest) error {
	return s.api.Signup(ctx, in)
}

// Logout cierra la sesión. El POST al backend es best-effort (un fallo
// solo se loguea); la limpieza local es incondicional, así el cliente
// siempre termina deslogueado desde su propia perspectiva.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("logout en el backend falló; se limpia igual")
	}
	s.aAnonimo(true)
}

// FetchUserTickets refresca la caché de tickets. El alcance (qué
// tickets ve cada rol) lo decide el servidor. Un 401 fuerza el cierre
// de sesión; cualquier otro error se loguea y la caché queda stale en
// vez de romper la UI.
func (s *Store) FetchUserTickets(ctx context.Context, tokenOverride string) {
	tickets, err := s.api.Tickets(ctx, tokenOverride)
	if err != nil {
		var ae authError
		if errors.As(err, &ae) && ae.EsAuth() {
			s.log.Info().Msg("401 al refrescar tickets: sesión invalidada por el servidor")
			s.logoutForzado(ctx)
			return
		}
		s.log.Warn().Err(err).Msg("refresco de tickets fallido; caché stale")
		return
	}

	s.mu.Lock()
	s.tickets = tickets
	s.mu.Unlock()
	s.notificar()
}

// CreateTicket crea un ticket y refetchea la colección completa en vez
// de anexar la respuesta localmente: los campos por defecto (estados
// iniciales) los computa el servidor y hay que confiar en ellos, no en
// una construcción local. Los errores se propagan para que el
// formulario muestre la validación.
func (s *Store) CreateTicket(ctx context.Context, form dto.CreateTicketRequest) error {
	if err := s.api.CreateTicket(ctx, form); err != nil {
		return err
	}
	s.FetchUserTickets(ctx, "")
	return nil
}

// logoutForzado es la recuperación ante sesión invalidada (401 durante
// el refresco). Transiciona a Anonimo exactamente una vez: si otra
// goroutine ya cerró la sesión, no hay nada que hacer — y como no
// vuelve a llamar a la red, no puede reentrar.
func (s *Store) logoutForzado(ctx context.Context) {
	s.mu.Lock()
	if s.estado != EstadoAutenticado {
		s.mu.Unlock()
		return
	}
	s.estado = EstadoAnonimo
	s.user = nil
	s.token = ""
	s.tickets = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo limpiar el token persistido")
	}
	s.notificar()
}

// aAnonimo limpia todo el estado local y deja la sesión en Anonimo.
func (s *Store) aAnonimo(limpiarToken bool) {
	s.mu.Lock()
	s.estado = EstadoAnonimo
	s.user = nil
	s.token = ""
	s.tickets = nil
	s.mu.Unlock()

	if limpiarToken {
		if err := s.tokens.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo limpiar el token persistido")
		}
	}
	s.notificar()
}
