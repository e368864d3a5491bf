package api

import "time"

// CreateDocumentRequest представляет запрос на создание документа
type CreateDocumentRequest struct {
	Key     string `json:"key"`     // уникальный ключ документа
	Content string `json:"content"` // содержимое (JSON текст)
}

// UpdateDocumentRequest представляет запрос на частичное обновление документа
// Поле применяется только если присутствует в JSON и не равно null;
// явный null трактуется так же, как отсутствие поля
type UpdateDocumentRequest struct {
	Key     *string `json:"key,omitempty"`
	Content *string `json:"content,omitempty"`
}

// DocumentResponse представляет документ в ответах API
type DocumentResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
