package handlers

import (
	"context"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
)

// anonymousID is the sentinel identity for unauthenticated visitors.
const anonymousID int64 = 0

// userIDHandler compares the session's user id. A nil session is an
// anonymous visitor and compares as id 0 rather than failing, so rules
// can explicitly target logged-out traffic.
type userIDHandler struct{}

func (userIDHandler) Evaluate(_ context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	subject := anonymousID
	if ec.Session != nil {
		subject = ec.Session.UserID
	}

	cv, err := condition.CoerceNumeric(cond.Values, cond.Operator)
	if err != nil {
		return engine.Failed(err)
	}
	return engine.Match(cv.MatchNumeric(float64(subject), cond.Operator))
}

// userRoleHandler compares the session's role id, with the same anonymous
// sentinel policy as userIDHandler.
type userRoleHandler struct{}

func (userRoleHandler) Evaluate(_ context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	subject := anonymousID
	if ec.Session != nil {
		subject = ec.Session.RoleID
	}

	cv, err := condition.CoerceNumeric(cond.Values, cond.Operator)
	if err != nil {
		return engine.Failed(err)
	}
	return engine.Match(cv.MatchNumeric(float64(subject), cond.Operator))
}
