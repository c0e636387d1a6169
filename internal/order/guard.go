package order

import (
	"errors"

	"github.com/MikeMC777/pedidos-api/internal/user"
)

var ErrForbidden = errors.New("not allowed to access this order")

// CanAccess decides whether the acting user may read or mutate the order:
// admins always, everyone else only their own orders.
func CanAccess(u *user.User, o *Order) bool {
	if u == nil || o == nil {
		return false
	}
	return u.Admin || u.ID == o.UserID
}
