package dto

// ErrorResponse cuerpo de error HTTP genérico.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ValidationErrorResponse cuerpo de error 422 con detalle por campo,
// al estilo Laravel: {"errors": {"campo": ["msg1", "msg2"]}}.
type ValidationErrorResponse struct {
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors"`
}

// PrimerMensaje devuelve el primer mensaje del primer campo con
// errores, que es lo que las pantallas muestran al usuario. Devuelve
// vacío si no hay ninguno.
func (v ValidationErrorResponse) PrimerMensaje() string {
	for _, msgs := range v.Errors {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return v.Message
}
