package model

import "time"

// The four catalog entities below mirror the editorial content tables.
// All of them are read-only from the API's point of view - rows are created
// by the seeder (or an external CMS) and served as-is.
//
// STRUCT TAG CONVENTION:
// The `json:"..."` tags use camelCase to match the wire format the mobile
// client expects (e.g. readTime, srcFavIcon). Pointer fields (*string) mark
// columns that are genuinely nullable in the schema, so they serialize as
// JSON null rather than "".

// CultureLink is a labelled cross-reference from a story into the culture
// encyclopedia, e.g. {Label: "Technique", Value: "Hand-thrown Clay"}.
type CultureLink struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Story is a long-form editorial piece about a craft tradition.
type Story struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle"`
	ReadTime     string        `json:"readTime"`
	Region       string        `json:"region"`
	Craft        string        `json:"craft"`
	Hero         string        `json:"hero"`
	Body         []string      `json:"body"`
	InlineImage  *string       `json:"inlineImage"`
	CultureLinks []CultureLink `json:"cultureLinks"`
	Source       *string       `json:"source"`
	SrcFavIcon   *string       `json:"srcFavIcon"`
	SrcLink      *string       `json:"srcLink"`
	Author       *string       `json:"author"`
	IsPublished  bool          `json:"isPublished"`
	CreatedOn    time.Time     `json:"createdOn"`
	UpdatedOn    time.Time     `json:"updatedOn"`
}

// Opportunity is a grant, residency, open call, scholarship, or fellowship.
type Opportunity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ForLine     string    `json:"forLine"`
	Deadline    string    `json:"deadline"`
	Region      string    `json:"region"`
	Category    string    `json:"category"`
	About       string    `json:"about"`
	Who         []string  `json:"who"`
	Offer       []string  `json:"offer"`
	LinkLabel   string    `json:"linkLabel"`
	Source      *string   `json:"source"`
	SrcFavIcon  *string   `json:"srcFavIcon"`
	SrcLink     *string   `json:"srcLink"`
	Author      *string   `json:"author"`
	IsPublished bool      `json:"isPublished"`
	CreatedOn   time.Time `json:"createdOn"`
	UpdatedOn   time.Time `json:"updatedOn"`
}

// Video is a short documentary clip.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Duration    string    `json:"duration"`
	Region      string    `json:"region"`
	Craft       string    `json:"craft"`
	Thumb       string    `json:"thumb"`
	Description string    `json:"description"`
	Source      *string   `json:"source"`
	SrcFavIcon  *string   `json:"srcFavIcon"`
	SrcLink     *string   `json:"srcLink"`
	Author      *string   `json:"author"`
	IsPublished bool      `json:"isPublished"`
	CreatedOn   time.Time `json:"createdOn"`
	UpdatedOn   time.Time `json:"updatedOn"`
}

// CultureSection is one heading + paragraph block in a culture entry.
type CultureSection struct {
	H string `json:"h"`
	P string `json:"p"`
}

// CultureEntry is an encyclopedia page for a craft tradition.
type CultureEntry struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Region      string           `json:"region"`
	Craft       string           `json:"craft"`
	Hero        string           `json:"hero"`
	Intro       string           `json:"intro"`
	Sections    []CultureSection `json:"sections"`
	Author      *string          `json:"author"`
	IsPublished bool             `json:"isPublished"`
	CreatedOn   time.Time        `json:"createdOn"`
	UpdatedOn   time.Time        `json:"updatedOn"`
}
