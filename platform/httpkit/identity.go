// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated caller's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access caller information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// WorkspaceID returns the workspace (tenant) the user belongs to.
	WorkspaceID() uuid.UUID
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	workspaceID   uuid.UUID
	authenticated bool
}

func (i *identity) UserID() uuid.UUID      { return i.userID }
func (i *identity) WorkspaceID() uuid.UUID { return i.workspaceID }
func (i *identity) IsAuthenticated() bool  { return i.authenticated }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if auth info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	workspaceID, wsOK := c.Get(ContextWorkspaceIDKey)

	if !userOK || !wsOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}
	wid, ok := workspaceID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	return &identity{userID: uid, workspaceID: wid, authenticated: true}
}

// MustGetWorkspaceID extracts the workspace ID or aborts with 401.
// Returns false when the request was aborted.
func MustGetWorkspaceID(c *gin.Context) (uuid.UUID, bool) {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return id.WorkspaceID(), true
}
