package introspect

import (
	"context"

	"github.com/riskibarqy/tennis-ranking/internal/domain/user"
)

// StaticVerifier accepts any request as a fixed principal. It backs local
// runs with AUTH_ENABLED=false.
type StaticVerifier struct {
	principal user.Principal
}

func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{principal: user.Principal{
		UserID: "local-dev",
		Login:  "local-dev",
		Roles:  []string{user.RoleUser, user.RoleAdmin},
	}}
}

func (v *StaticVerifier) VerifyAccessToken(_ context.Context, _ string) (user.Principal, error) {
	return v.principal, nil
}

// AnonymousPrincipal lets requests without an Authorization header through
// as the static principal.
func (v *StaticVerifier) AnonymousPrincipal() (user.Principal, bool) {
	return v.principal, true
}
