// Package mockserver implementa en memoria el contrato REST que
// consume el cliente: login/signup/logout, tickets con alcance por rol,
// administración de usuarios y reportes. Sirve para desarrollo local y
// como backend de los tests de integración; su política de autorización
// es plausible, no pretende ser la del backend real.
package mockserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/taller-tickets/internal/domain"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

// cuentaUsuario es un usuario del lado servidor: entidad + hash bcrypt.
type cuentaUsuario struct {
	entity.User
	PasswordHash string
}

// Store guarda el estado del servidor mock bajo un mutex único: el
// volumen de datos es de juguete y la simplicidad importa más que la
// concurrencia fina.
type Store struct {
	mu        sync.Mutex
	usuarios  map[int]*cuentaUsuario
	tickets   map[int]*entity.Ticket
	revocados map[string]struct{} // tokens invalidados por logout
	nextUser  int
	nextTicket int
}

// NewStore construye el almacén vacío.
func NewStore() *Store {
	return &Store{
		usuarios:   make(map[int]*cuentaUsuario),
		tickets:    make(map[int]*entity.Ticket),
		revocados:  make(map[string]struct{}),
		nextUser:   1,
		nextTicket: 1,
	}
}

// CrearUsuario registra un usuario nuevo con password hasheado.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (s *Store) CrearUsuario(nombre, email, password, telefono, rol string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.usuarios {
		if u.Email == email {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if rol == "" {
		rol = entity.RolUsuario
	}
	now := time.Now()
	cuenta := &cuentaUsuario{
		User: entity.User{
			ID:        s.nextUser,
			Nombre:    nombre,
			Email:     email,
			Rol:       rol,
			Telefono:  telefono,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: string(hash),
	}
	s.usuarios[cuenta.ID] = cuenta
	s.nextUser++
	copia := cuenta.User
	return &copia, nil
}

// Autenticar verifica email/password y devuelve el usuario.
func (s *Store) Autenticar(email, password string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.usuarios {
		if u.Email == email {
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
				return nil, domain.ErrUnauthorized
			}
			copia := u.User
			return &copia, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Usuario devuelve un usuario por ID.
func (s *Store) Usuario(id int) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usuarios[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copia := u.User
	return &copia, nil
}

// Usuarios lista usuarios, opcionalmente filtrados por rol.
func (s *Store) Usuarios(rol string) []entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.User, 0, len(s.usuarios))
	for _, u := range s.usuarios {
		if rol != "" && u.Rol != rol {
			continue
		}
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CambiarRol actualiza el rol de un usuario.
func (s *Store) CambiarRol(id int, rol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usuarios[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Rol = rol
	u.UpdatedAt = time.Now()
	return nil
}

// EliminarUsuario borra un usuario.
func (s *Store) EliminarUsuario(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usuarios[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.usuarios, id)
	return nil
}

// Revocar invalida un token emitido (logout del lado servidor).
func (s *Store) Revocar(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revocados[token] = struct{}{}
}

// Revocado indica si el token fue invalidado por logout.
func (s *Store) Revocado(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revocados[token]
	return ok
}

// CrearTicket crea un ticket con los defaults que computa el servidor:
// estados iniciales y prioridad media si la recepción no indicó una.
func (s *Store) CrearTicket(usuarioID int, tipo, marca, modelo, serie, descripcion, prioridad string) *entity.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prioridad == "" {
		prioridad = entity.PrioridadMedia
	}
	now := time.Now()
	t := &entity.Ticket{
		ID:                  s.nextTicket,
		UsuarioID:           usuarioID,
		Cliente:             s.nombreDe(usuarioID),
		TipoDispositivo:     tipo,
		Marca:               marca,
		Modelo:              modelo,
		NumeroSerie:         serie,
		DescripcionProblema: descripcion,
		EstadoUsuario:       entity.EstadoUsuarioPendiente,
		EstadoInterno:       entity.EstadoInternoSinIniciar,
		Prioridad:           prioridad,
		CostoTotal:          decimal.Zero,
		Abono:               decimal.Zero,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.tickets[t.ID] = t
	s.nextTicket++
	copia := *t
	return &copia
}

// Ticket devuelve un ticket por ID.
func (s *Store) Ticket(id int) (*entity.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copia := *t
	return &copia, nil
}

// TicketsPara devuelve la colección visible para el usuario según su
// rol: admin ve todo; el técnico ve los disponibles y los suyos; el
// usuario/recepcionista ve los que creó.
func (s *Store) TicketsPara(u *entity.User) []entity.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		switch u.Rol {
		case entity.RolAdmin:
			out = append(out, *t)
		case entity.RolTecnico:
			if t.TecnicoID == nil || *t.TecnicoID == u.ID {
				out = append(out, *t)
			}
		default:
			if t.UsuarioID == u.ID {
				out = append(out, *t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TicketsDe devuelve solo los asignados a un técnico.
func (s *Store) TicketsDe(tecnicoID int) []entity.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Ticket, 0)
	for _, t := range s.tickets {
		if t.TecnicoID != nil && *t.TecnicoID == tecnicoID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Asignar toma un ticket para un técnico. Un ticket ya tomado devuelve
// ErrTicketTomado: la invariante es máximo un técnico por ticket.
func (s *Store) Asignar(ticketID, tecnicoID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[ticketID]
	if !ok {
		return domain.ErrNotFound
	}
	if t.TecnicoID != nil {
		return domain.ErrTicketTomado
	}
	t.TecnicoID = &tecnicoID
	t.Tecnico = s.nombreDe(tecnicoID)
	t.EstadoUsuario = entity.EstadoUsuarioEnRevision
	t.EstadoInterno = entity.EstadoInternoEnProceso
	t.UpdatedAt = time.Now()
	return nil
}

// ActualizarTicket aplica un parche parcial ya validado por el handler.
func (s *Store) ActualizarTicket(id int, aplicar func(*entity.Ticket)) (*entity.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	aplicar(t)
	t.UpdatedAt = time.Now()
	copia := *t
	return &copia, nil
}

// Stats agrega las estadísticas del taller para reportes.
func (s *Store) Stats() entity.ReportStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := entity.ReportStats{
		PorEstadoUsuario: make(map[string]int),
		PorEstadoInterno: make(map[string]int),
		PorPrioridad:     make(map[string]int),
		TotalFacturado:   decimal.Zero,
		TotalAbonado:     decimal.Zero,
	}
	for _, t := range s.tickets {
		st.TotalTickets++
		st.PorEstadoUsuario[t.EstadoUsuario]++
		st.PorEstadoInterno[t.EstadoInterno]++
		st.PorPrioridad[t.Prioridad]++
		if t.TecnicoID == nil {
			st.TicketsSinTecnico++
		}
		st.TotalFacturado = st.TotalFacturado.Add(t.CostoTotal)
		st.TotalAbonado = st.TotalAbonado.Add(t.Abono)
	}
	return st
}

// nombreDe resuelve el nombre de un usuario; llamar con el mutex tomado.
func (s *Store) nombreDe(id int) string {
	if u, ok := s.usuarios[id]; ok {
		return u.Nombre
	}
	return ""
}
