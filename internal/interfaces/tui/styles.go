package tui

import "github.com/charmbracelet/lipgloss"

// Paleta y estilos compartidos por todas las pantallas.
var (
	estiloTitulo = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	estiloSubtitulo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	estiloError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	estiloOK = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	estiloAyuda = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	estiloCursor = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	estiloEtiqueta = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	estiloPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("25")).
			Padding(0, 1)
)

// etiquetaEstado colorea el estado visible del ticket.
func etiquetaEstado(estado string) string {
	switch estado {
	case "pendiente":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(estado)
	case "en_revision":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render(estado)
	case "reparado":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(estado)
	case "cerrado":
		return estiloAyuda.Render(estado)
	default:
		return estado
	}
}

// etiquetaPrioridad colorea la prioridad.
func etiquetaPrioridad(p string) string {
	switch p {
	case "alta":
		return estiloError.Render(p)
	case "media":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(p)
	default:
		return estiloAyuda.Render(p)
	}
}
