package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/application/session"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/api"
)

// msgLoginResuelto es el resultado asíncrono del intento de login.
type msgLoginResuelto struct{ err error }

// msgRegistroResuelto es el resultado asíncrono del registro.
type msgRegistroResuelto struct{ err error }

// loginScreen es el formulario de login y registro. No guarda sesión:
// el resultado exitoso viaja por el Session Store y la navegación la
// decide el guard.
type loginScreen struct {
	store *session.Store

	registro bool // false = login, true = registro
	campos   []textinput.Model
	foco     int
	enviando bool
	error    string
	aviso    string
}

func newLoginScreen(store *session.Store) *loginScreen {
	s := &loginScreen{store: store}
	s.armarCampos()
	return s
}

func (s *loginScreen) armarCampos() {
	etiquetas := []string{"email", "contraseña"}
	if s.registro {
		etiquetas = []string{"nombre", "email", "contraseña", "teléfono (opcional)"}
	}
	s.campos = make([]textinput.Model, len(etiquetas))
	for i, et := range etiquetas {
		in := textinput.New()
		in.Placeholder = et
		in.CharLimit = 120
		if strings.HasPrefix(et, "contraseña") {
			in.EchoMode = textinput.EchoPassword
		}
		s.campos[i] = in
	}
	s.foco = 0
	s.campos[0].Focus()
}

func (s *loginScreen) Init() tea.Cmd { return textinput.Blink }

func (s *loginScreen) Update(msg tea.Msg) (pantalla, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.enviando {
			return s, nil
		}
		switch msg.Type {
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
			return s.enviar()
		}
		if msg.Type == tea.KeyCtrlR {
			// Alternar entre login y registro.
			s.registro = !s.registro
			s.error, s.aviso = "", ""
			s.armarCampos()
			return s, textinput.Blink
		}

	case msgLoginResuelto:
		s.enviando = false
		if msg.err != nil {
			s.error = mensajeDe(msg.err)
		}
		// En éxito no hay nada que hacer acá: el store ya notificó y el
		// guard va a desmontar esta pantalla.
		return s, nil

	case msgRegistroResuelto:
		s.enviando = false
		if msg.err != nil {
			s.error = mensajeDe(msg.err)
			return s, nil
		}
		// Registro sin auto-login: se vuelve al formulario de login.
		s.registro = false
		s.armarCampos()
		s.aviso = "cuenta creada, iniciá sesión"
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.campos[s.foco], cmd = s.campos[s.foco].Update(msg)
	return s, cmd
}

func (s *loginScreen) enfocar(i int) {
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

func (s *loginScreen) enviar() (pantalla, tea.Cmd) {
	s.error, s.aviso = "", ""
	s.enviando = true

	if s.registro {
		in := dto.RegisterRequest{
			Nombre:   s.campos[0].Value(),
			Email:    s.campos[1].Value(),
			Password: s.campos[2].Value(),
			Telefono: s.campos[3].Value(),
		}
		return s, func() tea.Msg {
			return msgRegistroResuelto{err: s.store.Register(context.Background(), in)}
		}
	}

	in := dto.LoginRequest{Email: s.campos[0].Value(), Password: s.campos[1].Value()}
	return s, func() tea.Msg {
		_, err := s.store.Login(context.Background(), in)
		return msgLoginResuelto{err: err}
	}
}

func (s *loginScreen) View() string {
	titulo := "Taller — Iniciar sesión"
	if s.registro {
		titulo = "Taller — Crear cuenta"
	}

	var b strings.Builder
	b.WriteString(estiloTitulo.Render(titulo) + "\n\n")
	for i, in := range s.campos {
		cursor := "  "
		if i == s.foco {
			cursor = estiloCursor.Render("> ")
		}
		b.WriteString(cursor + in.View() + "\n")
	}
	if s.enviando {
		b.WriteString("\n" + estiloAyuda.Render("enviando...") + "\n")
	}
	if s.error != "" {
		b.WriteString("\n" + estiloError.Render(s.error) + "\n")
	}
	if s.aviso != "" {
		b.WriteString("\n" + estiloOK.Render(s.aviso) + "\n")
	}
	b.WriteString("\n" + estiloAyuda.Render("enter: continuar · ctrl+r: login/registro · ctrl+c: salir"))
	return estiloPanel.Render(lipgloss.NewStyle().Width(48).Render(b.String()))
}

// mensajeDe arma el texto a mostrar: el primer mensaje de campo en
// errores de validación, un texto genérico para fallos de red.
func mensajeDe(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if m := apiErr.Mensaje(); m != "" {
			return m
		}
		if apiErr.Status == 401 {
			return "credenciales inválidas"
		}
		return "error del servidor"
	}
	return "no se pudo conectar con el servidor"
}
