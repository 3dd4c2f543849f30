package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/response"
)

// RequireRole checks that the JWT carries one of the given roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, roleDeniedCode(roles))
	}
}

func roleDeniedCode(roles []model.Role) response.ErrCode {
	if len(roles) != 1 {
		return response.ErrForbidden
	}
	switch roles[0] {
	case model.RoleAdmin:
		return response.ErrAdminAccessOnly
	case model.RoleTeacher:
		return response.ErrTeacherAccessOnly
	case model.RoleStudent:
		return response.ErrStudentAccessOnly
	}
	return response.ErrForbidden
}
