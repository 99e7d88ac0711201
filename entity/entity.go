// Package entity defines the restaurant domain records and their
// index declarations, and wires a typed repository per entity type.
// The records only carry what the persistence layer needs; request and
// response shaping belongs to the application services.
package entity

import "time"

// User is a customer or staff account. Email and phone each carry a
// unique index.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"password_hash"`
	RoleIDs      []string  `json:"role_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) RecordID() string      { return u.ID }
func (u *User) SetRecordID(id string) { u.ID = id }
func (u *User) IndexValues() map[string]string {
	return map[string]string{"email": u.Email, "phone": u.Phone}
}

// Role groups permissions under a unique name.
type Role struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

func (r *Role) RecordID() string               { return r.ID }
func (r *Role) SetRecordID(id string)          { r.ID = id }
func (r *Role) IndexValues() map[string]string { return map[string]string{"name": r.Name} }

// Permission is a single named capability.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (p *Permission) RecordID() string               { return p.ID }
func (p *Permission) SetRecordID(id string)          { p.ID = id }
func (p *Permission) IndexValues() map[string]string { return map[string]string{"name": p.Name} }

// Category groups dishes on the menu.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (c *Category) RecordID() string               { return c.ID }
func (c *Category) SetRecordID(id string)          { c.ID = id }
func (c *Category) IndexValues() map[string]string { return map[string]string{"name": c.Name} }

// Dish is one menu item; its category reference maintains the
// category's dish set.
type Dish struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Available   bool    `json:"available"`
}

func (d *Dish) RecordID() string      { return d.ID }
func (d *Dish) SetRecordID(id string) { d.ID = id }
func (d *Dish) IndexValues() map[string]string {
	return map[string]string{"category_id": d.CategoryID}
}

// Cart is a user's open cart; one per user, so the user reference is
// a unique index.
type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Cart) RecordID() string               { return c.ID }
func (c *Cart) SetRecordID(id string)          { c.ID = id }
func (c *Cart) IndexValues() map[string]string { return map[string]string{"user_id": c.UserID} }

// CartItem is one dish line in a cart.
type CartItem struct {
	ID       string `json:"id"`
	CartID   string `json:"cart_id"`
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

func (i *CartItem) RecordID() string               { return i.ID }
func (i *CartItem) SetRecordID(id string)          { i.ID = id }
func (i *CartItem) IndexValues() map[string]string { return map[string]string{"cart_id": i.CartID} }

// Order is a placed order; the user reference maintains the user's
// order set.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Order) RecordID() string               { return o.ID }
func (o *Order) SetRecordID(id string)          { o.ID = id }
func (o *Order) IndexValues() map[string]string { return map[string]string{"user_id": o.UserID} }

// OrderItem is one dish line of a placed order, priced at order time.
type OrderItem struct {
	ID       string  `json:"id"`
	OrderID  string  `json:"order_id"`
	DishID   string  `json:"dish_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (i *OrderItem) RecordID() string               { return i.ID }
func (i *OrderItem) SetRecordID(id string)          { i.ID = id }
func (i *OrderItem) IndexValues() map[string]string { return map[string]string{"order_id": i.OrderID} }
