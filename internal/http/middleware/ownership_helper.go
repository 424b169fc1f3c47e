package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/marketsvc/domain"
)

// CheckRestaurantScope fails with domain.ErrForbidden when a restaurant
// session reaches for another restaurant's data. Other roles pass; the
// route policy already decided whether they may call the route at all.
func CheckRestaurantScope(c *gin.Context, restaurantID string) error {
	role, _ := c.Get(KeyUserRole)
	if role != domain.RoleRestaurant {
		return nil
	}
	own, _ := c.Get(KeyRestaurantID)
	if own == "" || own != restaurantID {
		return domain.ErrForbidden
	}
	return nil
}
