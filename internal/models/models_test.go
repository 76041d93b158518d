package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeCart(t *testing.T) {
	items := []CartItem{
		{ProductID: 1, Price: 100, Quantity: 2},
		{ProductID: 2, Price: 50, Quantity: 1},
	}

	s := SummarizeCart(items)

	assert.Equal(t, 250.0, s.TotalPrice)
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 2, s.UniqueProducts)
}

func TestSummarizeCartEmpty(t *testing.T) {
	s := SummarizeCart(nil)

	assert.Zero(t, s.TotalPrice)
	assert.Zero(t, s.TotalItems)
	assert.Zero(t, s.UniqueProducts)
}

func TestUserHasRole(t *testing.T) {
	u := &User{Roles: pq.StringArray{RoleUser, RoleAdmin}}

	assert.True(t, u.HasRole(RoleAdmin))
	assert.True(t, u.HasRole(RoleUser))
	assert.False(t, (&User{Roles: pq.StringArray{RoleUser}}).HasRole(RoleAdmin))
	assert.False(t, (&User{}).HasRole(RoleUser))
}
