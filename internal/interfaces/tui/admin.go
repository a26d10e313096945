package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tu-usuario/taller-tickets/internal/application/session"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/api"
)

// Mensajes asíncronos del panel admin.
type msgUsuariosCargados struct {
	usuarios []entity.User
	err      error
}
type msgAccionAdmin struct{ err error }
type msgStatsCargadas struct {
	stats *entity.ReportStats
	err   error
}
type msgPDFListo struct {
	ruta string
	err  error
}

// adminScreen es el panel de administración: gestión de usuarios
// (listar, filtrar por rol, cambiar rol, eliminar) y reportes
// (estadísticas agregadas y descarga del PDF).
type adminScreen struct {
	store   *session.Store
	cliente *api.Client

	vista    int // 0 = usuarios, 1 = reportes
	usuarios []entity.User
	filtro   string // filtro por rol; vacío = todos
	cursor   int

	stats *entity.ReportStats

	ocupado bool
	error   string
	aviso   string
}

func newAdminScreen(store *session.Store, cliente *api.Client) *adminScreen {
	return &adminScreen{store: store, cliente: cliente}
}

// Init dispara la carga inicial de usuarios.
func (s *adminScreen) Init() tea.Cmd {
	s.ocupado = true
	return s.cargarUsuarios()
}

func (s *adminScreen) cargarUsuarios() tea.Cmd {
	rol := s.filtro
	return func() tea.Msg {
		us, err := s.cliente.AdminUsers(context.Background(), rol)
		return msgUsuariosCargados{usuarios: us, err: err}
	}
}

func (s *adminScreen) Update(msg tea.Msg) (pantalla, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s.updateTeclas(msg)

	case msgUsuariosCargados:
		s.ocupado = false
		if msg.err != nil {
			s.error = mensajeDe(msg.err)
			return s, nil
		}
		s.usuarios = msg.usuarios
		if s.cursor >= len(s.usuarios) {
			s.cursor = 0
		}
		return s, nil

	case msgAccionAdmin:
		if msg.err != nil {
			s.ocupado = false
			s.error = mensajeDe(msg.err)
			return s, nil
		}
		s.aviso = "listo"
		return s, s.cargarUsuarios()

	case msgStatsCargadas:
		s.ocupado = false
		if msg.err != nil {
			s.error = mensajeDe(msg.err)
			return s, nil
		}
		s.stats = msg.stats
		return s, nil

	case msgPDFListo:
		s.ocupado = false
		if msg.err != nil {
			s.error = mensajeDe(msg.err)
			return s, nil
		}
		s.aviso = "reporte guardado en " + msg.ruta
		return s, nil
	}
	return s, nil
}

func (s *adminScreen) updateTeclas(msg tea.KeyMsg) (pantalla, tea.Cmd) {
	if s.ocupado {
		return s, nil
	}
	switch msg.String() {
	case "tab":
		s.vista = (s.vista + 1) % 2
		s.error, s.aviso = "", ""
		if s.vista == 1 && s.stats == nil {
			s.ocupado = true
			return s, func() tea.Msg {
				st, err := s.cliente.ReportStats(context.Background())
				return msgStatsCargadas{stats: st, err: err}
			}
		}
		return s, nil
	case "q":
		return s, func() tea.Msg {
			s.store.Logout(context.Background())
			return nil
		}
	}

	if s.vista == 1 {
		switch msg.String() {
		case "r":
			s.ocupado, s.error, s.aviso = true, "", ""
			return s, func() tea.Msg {
				st, err := s.cliente.ReportStats(context.Background())
				return msgStatsCargadas{stats: st, err: err}
			}
		case "p":
			s.ocupado, s.error, s.aviso = true, "", ""
			return s, s.descargarPDF()
		}
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.usuarios)-1 {
			s.cursor++
		}
	case "f":
		s.filtro = siguienteRol(s.filtro)
		s.cursor = 0
		s.ocupado = true
		return s, s.cargarUsuarios()
	case "r":
		s.ocupado, s.error, s.aviso = true, "", ""
		return s, s.cargarUsuarios()
	case "c":
		if s.cursor >= len(s.usuarios) {
			return s, nil
		}
		u := s.usuarios[s.cursor]
		nuevo := siguienteRolDeUsuario(u.Rol)
		s.ocupado, s.error, s.aviso = true, "", ""
		return s, func() tea.Msg {
			return msgAccionAdmin{err: s.cliente.SetUserRole(context.Background(), u.ID, nuevo)}
		}
	case "d":
		if s.cursor >= len(s.usuarios) {
			return s, nil
		}
		id := s.usuarios[s.cursor].ID
		s.ocupado, s.error, s.aviso = true, "", ""
		return s, func() tea.Msg {
			return msgAccionAdmin{err: s.cliente.DeleteUser(context.Background(), id)}
		}
	}
	return s, nil
}

func (s *adminScreen) descargarPDF() tea.Cmd {
	return func() tea.Msg {
		data, err := s.cliente.ReportPDF(context.Background())
		if err != nil {
			return msgPDFListo{err: err}
		}
		dir, err := os.UserHomeDir()
		if err != nil {
			dir = "."
		}
		ruta := filepath.Join(dir, "reporte-taller.pdf")
		if err := os.WriteFile(ruta, data, 0o644); err != nil {
			return msgPDFListo{err: err}
		}
		return msgPDFListo{ruta: ruta}
	}
}

// siguienteRol rota el filtro: todos → admin → tecnico → usuario →
// recepcionista → todos.
func siguienteRol(actual string) string {
	orden := []string{"", entity.RolAdmin, entity.RolTecnico, entity.RolUsuario, entity.RolRecepcionista}
	for i, r := range orden {
		if r == actual {
			return orden[(i+1)%len(orden)]
		}
	}
	return ""
}

// siguienteRolDeUsuario rota el rol asignable de un usuario concreto.
func siguienteRolDeUsuario(actual string) string {
	orden := []string{entity.RolUsuario, entity.RolRecepcionista, entity.RolTecnico, entity.RolAdmin}
	for i, r := range orden {
		if r == actual {
			return orden[(i+1)%len(orden)]
		}
	}
	return entity.RolUsuario
}

func (s *adminScreen) View() string {
	snap := s.store.Snapshot()
	var b strings.Builder

	nombre := ""
	if snap.User != nil {
		nombre = snap.User.Nombre
	}
	b.WriteString(estiloTitulo.Render("Taller — Administración") + "  " + estiloEtiqueta.Render(nombre) + "\n\n")

	vistas := []string{"Usuarios", "Reportes"}
	for i, v := range vistas {
		if i == s.vista {
			b.WriteString(estiloSubtitulo.Render("["+v+"]") + " ")
		} else {
			b.WriteString(estiloAyuda.Render(v) + " ")
		}
	}
	b.WriteString("\n\n")

	if s.vista == 1 {
		s.viewReportes(&b)
	} else {
		s.viewUsuarios(&b)
	}

	if s.ocupado {
		b.WriteString("\n" + estiloAyuda.Render("cargando...") + "\n")
	}
	if s.aviso != "" {
		b.WriteString("\n" + estiloOK.Render(s.aviso) + "\n")
	}
	if s.error != "" {
		b.WriteString("\n" + estiloError.Render(s.error) + "\n")
	}

	ayuda := "tab: vista · q: salir de la sesión"
	if s.vista == 0 {
		ayuda = "f: filtro rol · c: cambiar rol · d: eliminar · r: refrescar · " + ayuda
	} else {
		ayuda = "p: descargar PDF · r: refrescar · " + ayuda
	}
	b.WriteString("\n" + estiloAyuda.Render(ayuda))
	return estiloPanel.Render(b.String())
}

func (s *adminScreen) viewUsuarios(b *strings.Builder) {
	if s.filtro != "" {
		b.WriteString("rol: " + s.filtro + "\n\n")
	}
	if len(s.usuarios) == 0 {
		b.WriteString(estiloAyuda.Render("sin usuarios") + "\n")
	}
	for i, u := range s.usuarios {
		cursor := "  "
		if i == s.cursor {
			cursor = estiloCursor.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s#%d %s <%s> · %s\n", cursor, u.ID, u.Nombre, u.Email, u.Rol))
	}
}

func (s *adminScreen) viewReportes(b *strings.Builder) {
	if s.stats == nil {
		b.WriteString(estiloAyuda.Render("sin datos todavía") + "\n")
		return
	}
	st := s.stats
	b.WriteString(fmt.Sprintf("tickets totales:    %d\n", st.TotalTickets))
	b.WriteString(fmt.Sprintf("sin técnico:        %d\n", st.TicketsSinTecnico))
	b.WriteString("facturado:          $" + st.TotalFacturado.StringFixed(2) + "\n")
	b.WriteString("abonado:            $" + st.TotalAbonado.StringFixed(2) + "\n\n")

	escribirConteo(b, "Por estado (cliente)", st.PorEstadoUsuario)
	escribirConteo(b, "Por estado (interno)", st.PorEstadoInterno)
	escribirConteo(b, "Por prioridad", st.PorPrioridad)
}

func escribirConteo(b *strings.Builder, titulo string, conteo map[string]int) {
	if len(conteo) == 0 {
		return
	}
	b.WriteString(estiloSubtitulo.Render(titulo) + "\n")
	claves := make([]string, 0, len(conteo))
	for k := range conteo {
		claves = append(claves, k)
	}
	sort.Strings(claves)
	for _, k := range claves {
		b.WriteString(fmt.Sprintf("  %-14s %d\n", k, conteo[k]))
	}
	b.WriteString("\n")
}
