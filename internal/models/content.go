package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContentKind identifies a content variant
type ContentKind string

const (
	KindAshaar  ContentKind = "ashaar"
	KindGhazlen ContentKind = "ghazlen"
	KindNazmen  ContentKind = "nazmen"
	KindRubai   ContentKind = "rubai"
	KindEBooks  ContentKind = "ebooks"
	KindPoets   ContentKind = "shaer"
)

// Content is implemented by every typed content variant
type Content interface {
	Kind() ContentKind
	Base() BaseFields
}

// BaseFields are shared by all content variants
type BaseFields struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Shaer       string    `json:"shaer,omitempty"`
	Unwan       string    `json:"unwan,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Likes       int       `json:"likes,omitempty"`
	Comments    int       `json:"comments,omitempty"`
	Shares      int       `json:"shares,omitempty"`
	Language    string    `json:"language,omitempty"`
}

// Ashaar is a collection of couplets
type Ashaar struct {
	BaseFields
	Sher []string `json:"sher,omitempty"`
	Body string   `json:"body,omitempty"`
}

// Ghazal is a single ghazal
type Ghazal struct {
	BaseFields
	Ghazal     string   `json:"ghazal,omitempty"`
	GhazalHead []string `json:"ghazalHead,omitempty"`
}

// Nazm is a single nazm
type Nazm struct {
	BaseFields
	Nazm        string `json:"nazm,omitempty"`
	Paband      bool   `json:"paband,omitempty"`
	DisplayLine string `json:"displayLine,omitempty"`
}

// Rubai is a quatrain
type Rubai struct {
	BaseFields
	Body string `json:"body,omitempty"`
}

// EBook is a downloadable book
type EBook struct {
	BaseFields
	BookName       string `json:"bookName,omitempty"`
	Writer         string `json:"writer,omitempty"`
	PublishingDate string `json:"publishingDate,omitempty"`
	Description    string `json:"desc,omitempty"`
	URL            string `json:"url,omitempty"`
	Download       bool   `json:"download,omitempty"`
}

// Poet is a poet profile
type Poet struct {
	BaseFields
	Name        string `json:"name,omitempty"`
	Takhallus   string `json:"takhallus,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	DeathDate   string `json:"deathDate,omitempty"`
}

func (a *Ashaar) Kind() ContentKind { return KindAshaar }
func (g *Ghazal) Kind() ContentKind { return KindGhazlen }
func (n *Nazm) Kind() ContentKind   { return KindNazmen }
func (r *Rubai) Kind() ContentKind  { return KindRubai }
func (e *EBook) Kind() ContentKind  { return KindEBooks }
func (p *Poet) Kind() ContentKind   { return KindPoets }

func (b BaseFields) Base() BaseFields { return b }

// DecodeContent converts an upstream record into its typed variant
func DecodeContent(kind ContentKind, record *Record) (Content, error) {
	if record == nil {
		return nil, fmt.Errorf("record cannot be nil")
	}

	var content Content
	switch kind {
	case KindAshaar:
		content = &Ashaar{}
	case KindGhazlen:
		content = &Ghazal{}
	case KindNazmen:
		content = &Nazm{}
	case KindRubai:
		content = &Rubai{}
	case KindEBooks:
		content = &EBook{}
	case KindPoets:
		content = &Poet{}
	default:
		return nil, fmt.Errorf("unknown content kind '%s'", kind)
	}

	fields, err := json.Marshal(record.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record fields: %w", err)
	}
	if err := json.Unmarshal(fields, content); err != nil {
		return nil, fmt.Errorf("failed to decode %s record %s: %w", kind, record.ID, err)
	}

	setBase(content, record)
	return content, nil
}

// setBase copies record identity onto the decoded variant
func setBase(content Content, record *Record) {
	var base *BaseFields
	switch c := content.(type) {
	case *Ashaar:
		base = &c.BaseFields
	case *Ghazal:
		base = &c.BaseFields
	case *Nazm:
		base = &c.BaseFields
	case *Rubai:
		base = &c.BaseFields
	case *EBook:
		base = &c.BaseFields
	case *Poet:
		base = &c.BaseFields
	default:
		return
	}
	base.ID = record.ID
	base.CreatedTime = record.CreatedTime
}
