// ABOUTME: ArticleRecord domain model represents one harvested news article
// ABOUTME: Provides validation and conversion to the persisted document form

package domain

// ArticleRecord holds the structured fields extracted from one article page
type ArticleRecord struct {
	// Title is the article headline
	Title string

	// Description is the short summary from page metadata
	Description string

	// ArticleText is the newline-joined body text
	ArticleText string

	// PublicationDatetime is the publication time as found on the page,
	// kept as a free-form string rather than parsed into a time.Time
	PublicationDatetime string

	// Keywords are the article's tags, in document order
	Keywords []string

	// Authors are the article's authors, deduplicated preserving first occurrence
	Authors []string

	// SourceURL is the normalized article location; unique across the store
	SourceURL string

	// HeaderPhotoURL is the og:image URL, nil when the page has none
	HeaderPhotoURL *string

	// HeaderPhotoBase64 is the recompressed header photo, populated only by
	// the photo post-processor
	HeaderPhotoBase64 *string

	// HeaderPhotoAccent is the prominent color of the header photo, best-effort
	HeaderPhotoAccent *RGBColor
}

// RGBColor represents an RGB color value
type RGBColor struct {
	R uint8 `json:"r" bson:"r"`
	G uint8 `json:"g" bson:"g"`
	B uint8 `json:"b" bson:"b"`
}

// IsValid checks if the record has the fields required for persistence
func (a *ArticleRecord) IsValid() bool {
	return a.SourceURL != ""
}

// StoredDocument is the persisted form of an ArticleRecord plus service fields
type StoredDocument struct {
	Title               string    `bson:"title"`
	Description         string    `bson:"description"`
	ArticleText         string    `bson:"article_text"`
	PublicationDatetime string    `bson:"publication_datetime"`
	Keywords            []string  `bson:"keywords"`
	Authors             []string  `bson:"authors"`
	SourceURL           string    `bson:"source_url"`
	HeaderPhotoURL      *string   `bson:"header_photo_url"`
	HeaderPhotoBase64   *string   `bson:"header_photo_base64"`
	HeaderPhotoAccent   *RGBColor `bson:"header_photo_accent"`

	// ParsedAtUTC is stamped by the storage sink at write time, RFC 3339
	ParsedAtUTC string `bson:"parsed_at_utc"`
}

// ToStoredDocument converts a record to its persisted form. Optional fields
// stay pointer-typed so absent values are written as explicit null, and
// keyword/author slices are normalized to non-nil so they persist as empty
// arrays rather than null.
func (a *ArticleRecord) ToStoredDocument() StoredDocument {
	doc := StoredDocument{
		Title:               a.Title,
		Description:         a.Description,
		ArticleText:         a.ArticleText,
		PublicationDatetime: a.PublicationDatetime,
		Keywords:            a.Keywords,
		Authors:             a.Authors,
		SourceURL:           a.SourceURL,
		HeaderPhotoURL:      a.HeaderPhotoURL,
		HeaderPhotoBase64:   a.HeaderPhotoBase64,
		HeaderPhotoAccent:   a.HeaderPhotoAccent,
	}

	if doc.Keywords == nil {
		doc.Keywords = []string{}
	}
	if doc.Authors == nil {
		doc.Authors = []string{}
	}

	return doc
}
