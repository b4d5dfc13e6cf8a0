package dto

type NoticiaResponse struct {
	ID        int     `json:"id"`
	Fecha     string  `json:"fecha"`
	Titulo    string  `json:"titulo"`
	Contenido string  `json:"contenido"`
	Imagen    *string `json:"imagen"`
}
