package entity

// Sede representa una planta o sede física de la empresa.
// Cada bodega pertenece exactamente a una sede.
type Sede struct {
	ID     string
	Nombre string
}
