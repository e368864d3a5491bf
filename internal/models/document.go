package models

import "time"

// Document представляет JSON документ в хранилище
type Document struct {
	ID        string    `json:"id"`         // UUID документа
	Key       string    `json:"key"`        // уникальный ключ документа
	Content   string    `json:"content"`    // содержимое документа (JSON текст)
	CreatedAt time.Time `json:"created_at"` // время создания
	UpdatedAt time.Time `json:"updated_at"` // время последнего обновления
}
