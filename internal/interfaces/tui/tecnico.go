package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/application/session"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/api"
)

// msgAccionTecnico es el resultado de asignar o actualizar un ticket.
// Tras una acción exitosa la caché se refresca desde el servidor.
type msgAccionTecnico struct{ err error }

// tecnicoScreen es el panel de técnico: pestaña de tickets disponibles
// (sin técnico asignado) y pestaña de los propios, con asignación y
// edición de avance.
type tecnicoScreen struct {
	store   *session.Store
	cliente *api.Client

	pestana int // 0 = disponibles, 1 = míos
	cursor  int

	editando bool
	ticketID int
	campos   []textinput.Model
	foco     int

	ocupado bool
	error   string
	aviso   string
}

func newTecnicoScreen(store *session.Store, cliente *api.Client) *tecnicoScreen {
	return &tecnicoScreen{store: store, cliente: cliente}
}

func (s *tecnicoScreen) Init() tea.Cmd { return nil }

// listaActual filtra la caché del Session Store según la pestaña. Para
// un técnico el servidor ya devuelve disponibles + propios.
func (s *tecnicoScreen) listaActual() []entity.Ticket {
	snap := s.store.Snapshot()
	var miID int
	if snap.User != nil {
		miID = snap.User.ID
	}
	out := make([]entity.Ticket, 0, len(snap.Tickets))
	for _, t := range snap.Tickets {
		switch s.pestana {
		case 0:
			if t.Disponible() {
				out = append(out, t)
			}
		default:
			if t.TecnicoID != nil && *t.TecnicoID == miID {
				out = append(out, t)
			}
		}
	}
	return out
}

func (s *tecnicoScreen) Update(msg tea.Msg) (pantalla, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.editando {
			return s.updateEdicion(msg)
		}
		return s.updateLista(msg)

	case msgAccionTecnico:
		s.ocupado = false
		if msg.err != nil {
			s.error = mensajeDe(msg.err)
			return s, nil
		}
		s.editando = false
		s.aviso = "listo"
		return s, nil

	case msgRefrescado:
		return s, nil
	}
	return s, nil
}

func (s *tecnicoScreen) updateLista(msg tea.KeyMsg) (pantalla, tea.Cmd) {
	if s.ocupado {
		return s, nil
	}
	switch msg.String() {
	case "tab":
		s.pestana = (s.pestana + 1) % 2
		s.cursor = 0
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.listaActual())-1 {
			s.cursor++
		}
	case "a":
		lista := s.listaActual()
		if s.pestana != 0 || s.cursor >= len(lista) {
			return s, nil
		}
		id := lista[s.cursor].ID
		s.ocupado, s.error, s.aviso = true, "", ""
		return s, func() tea.Msg {
			if err := s.cliente.AssignTicket(context.Background(), id); err != nil {
				return msgAccionTecnico{err: err}
			}
			s.store.FetchUserTickets(context.Background(), "")
			return msgAccionTecnico{}
		}
	case "enter", "e":
		lista := s.listaActual()
		if s.pestana != 1 || s.cursor >= len(lista) {
			return s, nil
		}
		s.abrirEdicion(lista[s.cursor])
		return s, textinput.Blink
	case "r":
		s.aviso = ""
		return s, func() tea.Msg {
			s.store.FetchUserTickets(context.Background(), "")
			return msgRefrescado{}
		}
	case "q":
		return s, func() tea.Msg {
			s.store.Logout(context.Background())
			return nil
		}
	}
	return s, nil
}

func (s *tecnicoScreen) abrirEdicion(t entity.Ticket) {
	valores := []struct{ placeholder, valor string }{
		{"estado_usuario (pendiente/en_revision/reparado/cerrado)", t.EstadoUsuario},
		{"estado_interno (sin_iniciar/en_proceso/completado)", t.EstadoInterno},
		{"observaciones", t.ObservacionesTecnico},
		{"costo total", t.CostoTotal.StringFixed(2)},
		{"abono", t.Abono.StringFixed(2)},
	}
	s.campos = make([]textinput.Model, len(valores))
	for i, v := range valores {
		in := textinput.New()
		in.Placeholder = v.placeholder
		in.SetValue(v.valor)
		in.CharLimit = 300
		s.campos[i] = in
	}
	s.ticketID = t.ID
	s.foco = 0
	s.campos[0].Focus()
	s.editando = true
	s.error, s.aviso = "", ""
}

func (s *tecnicoScreen) updateEdicion(msg tea.KeyMsg) (pantalla, tea.Cmd) {
	if s.ocupado {
		return s, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		s.editando = false
		return s, nil
	case tea.KeyTab, tea.KeyDown:
		s.enfocar(s.foco + 1)
		return s, nil
	case tea.KeyShiftTab, tea.KeyUp:
		s.enfocar(s.foco - 1)
		return s, nil
	case tea.KeyEnter:
		if s.foco < len(s.campos)-1 {
			s.enfocar(s.foco + 1)
			return s, nil
		}
		parche, err := s.armarParche()
		if err != nil {
			s.error = err.Error()
			return s, nil
		}
		id := s.ticketID
		s.ocupado, s.error = true, ""
		return s, func() tea.Msg {
			if err := s.cliente.UpdateTicket(context.Background(), id, parche); err != nil {
				return msgAccionTecnico{err: err}
			}
			s.store.FetchUserTickets(context.Background(), "")
			return msgAccionTecnico{}
		}
	}
	var cmd tea.Cmd
	s.campos[s.foco], cmd = s.campos[s.foco].Update(msg)
	return s, cmd
}

func (s *tecnicoScreen) enfocar(i int) {
	if i < 0 {
		i = len(s.campos) - 1
	}
	if i >= len(s.campos) {
		i = 0
	}
	s.campos[s.foco].Blur()
	s.foco = i
	s.campos[s.foco].Focus()
}

// armarParche convierte el formulario en un PATCH parcial. Campos
// vacíos no viajan; los montos se validan como decimales antes de
// enviar.
func (s *tecnicoScreen) armarParche() (dto.UpdateTicketRequest, error) {
	var parche dto.UpdateTicketRequest
	if v := strings.TrimSpace(s.campos[0].Value()); v != "" {
		parche.EstadoUsuario = &v
	}
	if v := strings.TrimSpace(s.campos[1].Value()); v != "" {
		parche.EstadoInterno = &v
	}
	if v := s.campos[2].Value(); v != "" {
		parche.ObservacionesTecnico = &v
	}
	if v := strings.TrimSpace(s.campos[3].Value()); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return parche, fmt.Errorf("costo total inválido: %q", v)
		}
		parche.CostoTotal = &d
	}
	if v := strings.TrimSpace(s.campos[4].Value()); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return parche, fmt.Errorf("abono inválido: %q", v)
		}
		parche.Abono = &d
	}
	return parche, nil
}

func (s *tecnicoScreen) View() string {
	snap := s.store.Snapshot()
	var b strings.Builder

	nombre := ""
	if snap.User != nil {
		nombre = snap.User.Nombre
	}
	b.WriteString(estiloTitulo.Render("Taller — Técnico") + "  " + estiloEtiqueta.Render(nombre) + "\n\n")

	if s.editando {
		b.WriteString(estiloSubtitulo.Render(fmt.Sprintf("Ticket #%d", s.ticketID)) + "\n")
		for i, in := range s.campos {
			cursor := "  "
			if i == s.foco {
				cursor = estiloCursor.Render("> ")
			}
			b.WriteString(cursor + in.View() + "\n")
		}
		if s.ocupado {
			b.WriteString(estiloAyuda.Render("guardando...") + "\n")
		}
		if s.error != "" {
			b.WriteString(estiloError.Render(s.error) + "\n")
		}
		b.WriteString("\n" + estiloAyuda.Render("enter: siguiente/guardar · esc: cancelar"))
		return estiloPanel.Render(b.String())
	}

	pestanas := []string{"Disponibles", "Míos"}
	for i, p := range pestanas {
		if i == s.pestana {
			b.WriteString(estiloSubtitulo.Render("["+p+"]") + " ")
		} else {
			b.WriteString(estiloAyuda.Render(p) + " ")
		}
	}
	b.WriteString("\n\n")

	lista := s.listaActual()
	if len(lista) == 0 {
		b.WriteString(estiloAyuda.Render("sin tickets") + "\n")
	}
	for i, t := range lista {
		cursor := "  "
		if i == s.cursor {
			cursor = estiloCursor.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s#%d %s %s %s · %s/%s · %s\n",
			cursor, t.ID, t.TipoDispositivo, t.Marca, t.Modelo,
			etiquetaEstado(t.EstadoUsuario), t.EstadoInterno, etiquetaPrioridad(t.Prioridad)))
	}

	if i := s.cursor; i < len(lista) {
		t := lista[i]
		b.WriteString("\n" + estiloEtiqueta.Render("problema: ") + t.DescripcionProblema + "\n")
		if t.ObservacionesTecnico != "" {
			b.WriteString(estiloEtiqueta.Render("observaciones: ") + t.ObservacionesTecnico + "\n")
		}
		b.WriteString(estiloEtiqueta.Render("saldo: ") + "$" + t.Saldo().StringFixed(2) + "\n")
	}

	if s.ocupado {
		b.WriteString("\n" + estiloAyuda.Render("trabajando...") + "\n")
	}
	if s.aviso != "" {
		b.WriteString("\n" + estiloOK.Render(s.aviso) + "\n")
	}
	if s.error != "" {
		b.WriteString("\n" + estiloError.Render(s.error) + "\n")
	}

	ayuda := "tab: pestaña · r: refrescar · q: salir de la sesión"
	if s.pestana == 0 {
		ayuda = "a: tomar ticket · " + ayuda
	} else {
		ayuda = "enter: editar · " + ayuda
	}
	b.WriteString("\n" + estiloAyuda.Render(ayuda))
	return estiloPanel.Render(b.String())
}
