// Package policy holds the access decisions for profiles and projects.
// Every decision is a pure function of the requester identity, the resource
// owner and the resource visibility; no store access, fully unit-testable.
package policy

import "stringart_backend/internal/models"

// CanViewProfile allows anyone, authenticated or not, to read the public
// profile of a verified user.
func CanViewProfile(user *models.User) bool {
	return user.IsVerified()
}

// CanEditProfile allows mutation only by the exact owner. There are no roles.
func CanEditProfile(requesterID, ownerID int64) bool {
	return requesterID == ownerID
}

// CanReadProject: the owner always reads their own project; a non-owner reads
// it only when its visibility is shared.
func CanReadProject(requesterID, ownerID int64, visibility models.Visibility) bool {
	if requesterID == ownerID {
		return true
	}
	return visibility == models.VisibilityShared
}

// CanWriteProject: only the owner writes, regardless of visibility.
func CanWriteProject(requesterID, ownerID int64) bool {
	return requesterID == ownerID
}

// CanChangeVisibility: visibility is part of the project's write surface and
// follows the same owner-only rule.
func CanChangeVisibility(requesterID, ownerID int64) bool {
	return requesterID == ownerID
}
