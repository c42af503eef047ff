package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset vienen vacíos.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP: código máquina + mensaje humano.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
