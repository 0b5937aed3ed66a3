package appwrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Databases performs document CRUD inside one database.
type Databases struct {
	c          *Client
	databaseID string
}

func (d *Databases) documentsPath(collectionID string) string {
	return "/databases/" + url.PathEscape(d.databaseID) + "/collections/" + url.PathEscape(collectionID) + "/documents"
}

// CreateDocument stores data (a struct or map) under documentID, which may
// be UniqueID. A nil permissions slice inherits the collection's.
func (d *Databases) CreateDocument(ctx context.Context, collectionID, documentID string, data any, permissions []string) (*Document, error) {
	body := map[string]any{"documentId": documentID, "data": data}
	if permissions != nil {
		body["permissions"] = permissions
	}
	var doc Document
	if err := d.c.call(ctx, http.MethodPost, d.documentsPath(collectionID), nil, body, &doc); err != nil {
		d.c.logFailure(ctx, "databases.createDocument", err)
		return nil, err
	}
	return &doc, nil
}

func (d *Databases) GetDocument(ctx context.Context, collectionID, documentID string) (*Document, error) {
	var doc Document
	path := d.documentsPath(collectionID) + "/" + url.PathEscape(documentID)
	if err := d.c.call(ctx, http.MethodGet, path, nil, nil, &doc); err != nil {
		d.c.logFailure(ctx, "databases.getDocument", err)
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns documents matching every query.
func (d *Databases) ListDocuments(ctx context.Context, collectionID string, queries ...string) (*DocumentList, error) {
	var q url.Values
	if len(queries) > 0 {
		q = url.Values{"queries[]": queries}
	}
	var list DocumentList
	if err := d.c.call(ctx, http.MethodGet, d.documentsPath(collectionID), q, nil, &list); err != nil {
		d.c.logFailure(ctx, "databases.listDocuments", err)
		return nil, err
	}
	return &list, nil
}

// UpdateDocument patches the given attributes.
func (d *Databases) UpdateDocument(ctx context.Context, collectionID, documentID string, data any) (*Document, error) {
	var doc Document
	path := d.documentsPath(collectionID) + "/" + url.PathEscape(documentID)
	if err := d.c.call(ctx, http.MethodPatch, path, nil, map[string]any{"data": data}, &doc); err != nil {
		d.c.logFailure(ctx, "databases.updateDocument", err)
		return nil, err
	}
	return &doc, nil
}

func (d *Databases) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	path := d.documentsPath(collectionID) + "/" + url.PathEscape(documentID)
	if err := d.c.call(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		d.c.logFailure(ctx, "databases.deleteDocument", err)
		return err
	}
	return nil
}

type query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

func (q query) String() string {
	b, _ := json.Marshal(q)
	return string(b)
}

// Equal matches documents whose attribute equals any of values.
func Equal(attribute string, values ...any) string {
	return query{Method: "equal", Attribute: attribute, Values: values}.String()
}

func OrderDesc(attribute string) string {
	return query{Method: "orderDesc", Attribute: attribute}.String()
}

func Limit(n int) string {
	return query{Method: "limit", Values: []any{n}}.String()
}

func Offset(n int) string {
	return query{Method: "offset", Values: []any{n}}.String()
}
