package session

import (
	"context"
	"errors"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/profile"
)

// Documents is the slice of the BaaS document API used for profiles.
// *appwrite.Databases satisfies it.
type Documents interface {
	CreateDocument(ctx context.Context, collectionID, documentID string, data any, permissions []string) (*appwrite.Document, error)
	GetDocument(ctx context.Context, collectionID, documentID string) (*appwrite.Document, error)
	UpdateDocument(ctx context.Context, collectionID, documentID string, data any) (*appwrite.Document, error)
	DeleteDocument(ctx context.Context, collectionID, documentID string) error
}

// DocumentProfiles stores one profile document per identity, keyed by the
// identity id and readable only by its owner.
type DocumentProfiles struct {
	docs       Documents
	collection string
}

func NewDocumentProfiles(docs Documents, collectionID string) *DocumentProfiles {
	return &DocumentProfiles{docs: docs, collection: collectionID}
}

func (r *DocumentProfiles) Load(ctx context.Context, userID string) (profile.Profile, bool, error) {
	doc, err := r.docs.GetDocument(ctx, r.collection, userID)
	if errors.Is(err, appwrite.ErrNotFound) {
		return profile.Profile{}, false, nil
	}
	if err != nil {
		return profile.Profile{}, false, err
	}
	return profile.Decode(doc.Data), true, nil
}

// Save updates the document, creating it on first write.
func (r *DocumentProfiles) Save(ctx context.Context, userID string, p profile.Profile) error {
	data, err := profile.Document(p)
	if err != nil {
		return err
	}
	_, err = r.docs.UpdateDocument(ctx, r.collection, userID, data)
	if errors.Is(err, appwrite.ErrNotFound) {
		_, err = r.docs.CreateDocument(ctx, r.collection, userID, data, appwrite.OwnerOnly(userID))
	}
	return err
}

func (r *DocumentProfiles) Delete(ctx context.Context, userID string) error {
	err := r.docs.DeleteDocument(ctx, r.collection, userID)
	if errors.Is(err, appwrite.ErrNotFound) {
		return nil
	}
	return err
}
