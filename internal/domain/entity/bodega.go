package entity

// Bodega representa una bodega física de almacenamiento dentro de una sede.
type Bodega struct {
	ID     string
	SedeID string
	Nombre string
}
