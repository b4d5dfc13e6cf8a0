package model

import "time"

type Noticia struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Fecha     time.Time `json:"fecha" gorm:"not null;index"`
	Titulo    string    `json:"titulo" gorm:"not null"`
	Contenido string    `json:"contenido" gorm:"type:text;not null"`
	Imagen    *string   `json:"imagen"`
}

func (Noticia) TableName() string {
	return "noticias"
}
