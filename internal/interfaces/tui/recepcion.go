package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/application/session"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

// msgTicketCreado es el resultado asíncrono del alta de ticket.
type msgTicketCreado struct{ err error }

// msgRefrescado indica que terminó un refresco manual.
type msgRefrescado struct{}

// recepcionScreen es el panel de recepción/usuario: lista de tickets
// con filtro local y formulario de alta. La colección siempre sale del
// snapshot del Session Store.
type recepcionScreen struct {
	store *session.Store

	filtro    textinput.Model
	filtrando bool
	estado    string // filtro por estado_usuario; vacío = todos
	cursor    int

	formulario bool
	campos     []textinput.Model
	foco       int
	enviando   bool
	error      string
	aviso      string
}

func newRecepcionScreen(store *session.Store) *recepcionScreen {
	f := textinput.New()
	f.Placeholder = "filtrar..."
	f.CharLimit = 80
	return &recepcionScreen{store: store, filtro: f}
}

func (s *recepcionScreen) Init() tea.Cmd { return nil }

// visibles aplica el filtrado local (subcadena + estado) sobre la caché
// ya traída; nunca va a la red.
func (s *recepcionScreen) visibles() []entity.Ticket {
	snap := s.store.Snapshot()
	consulta := strings.ToLower(s.filtro.Value())
	out := make([]entity.Ticket, 0, len(snap.Tickets))
	for _, t := range snap.Tickets {
		if s.estado != "" && t.EstadoUsuario != s.estado {
			continue
		}
		if consulta != "" {
			texto := strings.ToLower(strings.Join([]string{
				t.TipoDispositivo, t.Marca, t.Modelo, t.NumeroSerie, t.DescripcionProblema,
			}, " "))
			if !strings.Contains(texto, consulta) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (s *recepcionScreen) Update(msg tea.Msg) (pantalla, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.formulario {
			return s.updateFormulario(msg)
		}
		if s.filtrando {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				s.filtrando = false
				s.filtro.Blur()
				return s, nil
			}
			var cmd tea.Cmd
			s.filtro, cmd = s.filtro.Update(msg)
			s.cursor = 0
			return s, cmd
		}
		return s.updateLista(msg)

	case msgTicketCreado:
		s.enviando = false
		if msg.err != nil {
			s.error = mensajeDe(msg.err)
			return s, nil
		}
		s.formulario = false
		s.aviso = "ticket creado"
		return s, nil

	case msgRefrescado:
		return s, nil
	}
	return s, nil
}

func (s *recepcionScreen) updateLista(msg tea.KeyMsg) (pantalla, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.visibles())-1 {
			s.cursor++
		}
	case "/":
		s.filtrando = true
		s.filtro.Focus()
		return s, textinput.Blink
	case "e":
		s.estado = siguienteEstado(s.estado)
		s.cursor = 0
	case "n":
		s.abrirFormulario()
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

// siguienteEstado rota el filtro: todos → pendiente → en_revision →
// reparado → cerrado → todos.
func siguienteEstado(actual string) string {
	orden := []string{"", entity.EstadoUsuarioPendiente, entity.EstadoUsuarioEnRevision, entity.EstadoUsuarioReparado, entity.EstadoUsuarioCerrado}
	for i, e := range orden {
		if e == actual {
			return orden[(i+1)%len(orden)]
		}
	}
	return ""
}

func (s *recepcionScreen) abrirFormulario() {
	etiquetas := []string{"tipo de dispositivo", "marca", "modelo", "número de serie", "descripción del problema", "prioridad (baja/media/alta)"}
	s.campos = make([]textinput.Model, len(etiquetas))
	for i, et := range etiquetas {
		in := textinput.New()
		in.Placeholder = et
		in.CharLimit = 200
		s.campos[i] = in
	}
	s.foco = 0
	s.campos[0].Focus()
	s.formulario = true
	s.error, s.aviso = "", ""
}

func (s *recepcionScreen) updateFormulario(msg tea.KeyMsg) (pantalla, tea.Cmd) {
	if s.enviando {
		return s, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		s.formulario = false
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
		s.enviando = true
		s.error = ""
		in := dto.CreateTicketRequest{
			TipoDispositivo:     s.campos[0].Value(),
			Marca:               s.campos[1].Value(),
			Modelo:              s.campos[2].Value(),
			NumeroSerie:         s.campos[3].Value(),
			DescripcionProblema: s.campos[4].Value(),
			Prioridad:           s.campos[5].Value(),
		}
		return s, func() tea.Msg {
			return msgTicketCreado{err: s.store.CreateTicket(context.Background(), in)}
		}
	}
	var cmd tea.Cmd
	s.campos[s.foco], cmd = s.campos[s.foco].Update(msg)
	return s, cmd
}

func (s *recepcionScreen) enfocar(i int) {
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

func (s *recepcionScreen) View() string {
	snap := s.store.Snapshot()
	var b strings.Builder

	nombre := ""
	if snap.User != nil {
		nombre = snap.User.Nombre
	}
	b.WriteString(estiloTitulo.Render("Taller — Recepción") + "  " + estiloEtiqueta.Render(nombre) + "\n\n")

	if s.formulario {
		b.WriteString(estiloSubtitulo.Render("Nuevo ticket") + "\n")
		for i, in := range s.campos {
			cursor := "  "
			if i == s.foco {
				cursor = estiloCursor.Render("> ")
			}
			b.WriteString(cursor + in.View() + "\n")
		}
		if s.enviando {
			b.WriteString(estiloAyuda.Render("creando...") + "\n")
		}
		if s.error != "" {
			b.WriteString(estiloError.Render(s.error) + "\n")
		}
		b.WriteString("\n" + estiloAyuda.Render("enter: siguiente/crear · esc: cancelar"))
		return estiloPanel.Render(b.String())
	}

	if s.filtrando || s.filtro.Value() != "" {
		b.WriteString("filtro: " + s.filtro.View() + "\n")
	}
	if s.estado != "" {
		b.WriteString("estado: " + etiquetaEstado(s.estado) + "\n")
	}
	b.WriteString("\n")

	visibles := s.visibles()
	if len(visibles) == 0 {
		b.WriteString(estiloAyuda.Render("sin tickets") + "\n")
	}
	for i, t := range visibles {
		cursor := "  "
		if i == s.cursor {
			cursor = estiloCursor.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s#%d %s %s %s · %s · %s\n",
			cursor, t.ID, t.TipoDispositivo, t.Marca, t.Modelo,
			etiquetaEstado(t.EstadoUsuario), etiquetaPrioridad(t.Prioridad)))
	}

	if i := s.cursor; i < len(visibles) {
		t := visibles[i]
		b.WriteString("\n" + estiloEtiqueta.Render("problema: ") + t.DescripcionProblema + "\n")
		b.WriteString(estiloEtiqueta.Render("técnico: ") + valorO(t.Tecnico, "sin asignar") + "\n")
		b.WriteString(estiloEtiqueta.Render("costo: ") + "$" + t.CostoTotal.StringFixed(2) +
			"  abono: $" + t.Abono.StringFixed(2) + "\n")
	}

	if s.aviso != "" {
		b.WriteString("\n" + estiloOK.Render(s.aviso) + "\n")
	}
	b.WriteString("\n" + estiloAyuda.Render("n: nuevo · /: filtrar · e: estado · r: refrescar · q: salir de la sesión"))
	return estiloPanel.Render(b.String())
}

func valorO(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
