// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/municipio/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, ObjectID, and a found flag.
// If no user is present or the stored ID is malformed it returns
// "visitor", "", NilObjectID, false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// RequestIsAdmin reports whether the signed-in user has an admin role.
func RequestIsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && IsAdmin(role)
}

// RequestCanManageSector reports whether the signed-in user may edit the
// sector with the given slug.
func RequestCanManageSector(r *http.Request, slug string) bool {
	role, _, _, ok := UserCtx(r)
	return ok && CanManageSector(role, slug)
}
