package appwrite

import (
	"encoding/json"
	"strings"
)

// UniqueID asks the service to generate the id.
const UniqueID = "unique()"

type User struct {
	ID                string         `json:"$id"`
	CreatedAt         string         `json:"$createdAt"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	EmailVerification bool           `json:"emailVerification"`
	Status            bool           `json:"status"`
	Registration      string         `json:"registration"`
	Prefs             map[string]any `json:"prefs"`
}

type Session struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

type Token struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

// Document is a stored record. System attributes ($id, $createdAt, ...) are
// lifted into fields; everything else stays in Data.
type Document struct {
	ID           string
	CollectionID string
	DatabaseID   string
	CreatedAt    string
	UpdatedAt    string
	Permissions  []string
	Data         map[string]any
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Document{Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case "$id":
			d.ID, _ = v.(string)
		case "$collectionId":
			d.CollectionID, _ = v.(string)
		case "$databaseId":
			d.DatabaseID, _ = v.(string)
		case "$createdAt":
			d.CreatedAt, _ = v.(string)
		case "$updatedAt":
			d.UpdatedAt, _ = v.(string)
		case "$permissions":
			if list, ok := v.([]any); ok {
				for _, p := range list {
					if s, ok := p.(string); ok {
						d.Permissions = append(d.Permissions, s)
					}
				}
			}
		default:
			if !strings.HasPrefix(k, "$") {
				d.Data[k] = v
			}
		}
	}
	return nil
}

// Decode copies Data into out (a pointer to a struct with json tags) and
// sets out's "$id"-tagged field when present.
func (d *Document) Decode(out any) error {
	data := make(map[string]any, len(d.Data)+1)
	for k, v := range d.Data {
		data[k] = v
	}
	data["$id"] = d.ID
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

// Permission strings understood by the service.

func ReadAny() string                { return `read("any")` }
func ReadUser(id string) string      { return `read("user:` + id + `")` }
func UpdateUser(id string) string    { return `update("user:` + id + `")` }
func DeleteUser(id string) string    { return `delete("user:` + id + `")` }
func OwnerOnly(id string) []string   { return []string{ReadUser(id), UpdateUser(id), DeleteUser(id)} }
func PublicOwned(id string) []string { return []string{ReadAny(), UpdateUser(id), DeleteUser(id)} }
