package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserDetails identifies the person filing a petition
type UserDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	TCNo    string `json:"tcNo,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Value implements driver.Valuer for JSONB
func (u UserDetails) Value() (driver.Value, error) {
	return json.Marshal(u)
}

// Scan implements sql.Scanner for JSONB
func (u *UserDetails) Scan(value interface{}) error {
	return scanJSONB(value, u)
}

// Receiver is the authority a petition is addressed to
type Receiver struct {
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

// Value implements driver.Valuer for JSONB
func (r Receiver) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *Receiver) Scan(value interface{}) error {
	return scanJSONB(value, r)
}

func scanJSONB(value interface{}, dst interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB value %T", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dst)
}

// PetitionType is one entry of the fixed petition catalogue
type PetitionType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Petition is a generated petition and its stored PDF
type Petition struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	FileName     string      `json:"fileName"`
	StoragePath  string      `json:"-"`
	PetitionType string      `json:"petitionType"`
	UserDetails  UserDetails `json:"userDetails"`
	Receiver     Receiver    `json:"receiver"`
	CreateDate   time.Time   `json:"createDate"`
}

// PetitionSummary is the listing view of a petition
type PetitionSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	FileName     string    `json:"fileName"`
	CreateDate   time.Time `json:"createDate"`
	PetitionType string    `json:"petitionType"`
}

func (p *Petition) Summary() PetitionSummary {
	return PetitionSummary{
		ID:           p.ID,
		Title:        p.Title,
		FileName:     p.FileName,
		CreateDate:   p.CreateDate,
		PetitionType: p.PetitionType,
	}
}
