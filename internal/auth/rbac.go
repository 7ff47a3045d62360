package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boothiq/leadcapture/internal/exhibitor"
)

type Permission string

const (
	PermCapturesCreate Permission = "captures:create"
	PermLeadsRead      Permission = "leads:read"
	PermLeadsWrite     Permission = "leads:write"
	PermLeadsDelete    Permission = "leads:delete"
	PermLeadsExport    Permission = "leads:export"
	PermWebhooksManage Permission = "webhooks:manage"
	PermAdminRead      Permission = "admin:read"
	PermWildcard       Permission = "*"
)

type RBAC struct {
	db *pgxpool.Pool
}

func NewRBAC(db *pgxpool.Pool) *RBAC {
	return &RBAC{db: db}
}

func (r *RBAC) RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			staff := exhibitor.StaffFromContext(req.Context())
			if staff == nil {
				writeError(w, http.StatusForbidden, "no staff in context")
				return
			}

			if staff.RoleID == nil {
				writeError(w, http.StatusForbidden, "no role assigned")
				return
			}

			has, err := r.roleHasPermission(req.Context(), staff.RoleID.String(), perm)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "permission check failed")
				return
			}
			if !has {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func (r *RBAC) roleHasPermission(ctx context.Context, roleID string, perm Permission) (bool, error) {
	var permJSON json.RawMessage
	err := r.db.QueryRow(ctx,
		"SELECT permissions FROM roles WHERE id = $1", roleID,
	).Scan(&permJSON)
	if err != nil {
		return false, err
	}

	var perms []string
	if err := json.Unmarshal(permJSON, &perms); err != nil {
		return false, err
	}

	for _, p := range perms {
		if Permission(p) == PermWildcard || Permission(p) == perm {
			return true, nil
		}
	}
	return false, nil
}
