package entity

import (
	"time"
)

// Document represents one ingested source file for data transfer between layers.
type Document struct {
	ID        int64     `json:"document_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredPage represents one persisted page of extracted text for data transfer between layers.
type StoredPage struct {
	TextID           int64  `json:"text_id"`
	DocumentID       int64  `json:"document_id"`
	PageText         string `json:"page_text"`
	PageNumber       int    `json:"page_number"`
	NumberWords      int    `json:"number_words"`
	NumberCharacters int    `json:"number_characters"`
}
