package entity

// Employee es una entrada del directorio de empleados, usada solo para atribuir movimientos.
type Employee struct {
	ID         string
	Name       string
	Department string
}
