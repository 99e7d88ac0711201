package entity

import (
	"context"
	"time"

	"github.com/quang159258/restaurant-storage/cache"
	"github.com/quang159258/restaurant-storage/docstore"
	"github.com/quang159258/restaurant-storage/kv"
)

// Entity type names double as key prefixes in the store.
const (
	TypeUser       = "user"
	TypeRole       = "role"
	TypePermission = "permission"
	TypeCategory   = "category"
	TypeDish       = "dish"
	TypeCart       = "cart"
	TypeCartItem   = "cart-item"
	TypeOrder      = "order"
	TypeOrderItem  = "order-item"
)

// Users persists User records.
type Users struct {
	*docstore.Repository[*User]
}

// NewUsers creates the user repository.
func NewUsers(store kv.Store, opts ...docstore.Option) *Users {
	spec := docstore.Spec{
		Type:   TypeUser,
		Unique: []string{"email", "phone"},
	}
	return &Users{docstore.NewRepository(store, spec, func() *User { return new(User) }, opts...)}
}

// FindByEmail resolves a user through the unique email index.
func (r *Users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.FindByUnique(ctx, "email", email)
}

// FindByPhone resolves a user through the unique phone index.
func (r *Users) FindByPhone(ctx context.Context, phone string) (*User, error) {
	return r.FindByUnique(ctx, "phone", phone)
}

// Roles persists Role records.
type Roles struct {
	*docstore.Repository[*Role]
}

// NewRoles creates the role repository.
func NewRoles(store kv.Store, opts ...docstore.Option) *Roles {
	spec := docstore.Spec{Type: TypeRole, Unique: []string{"name"}}
	return &Roles{docstore.NewRepository(store, spec, func() *Role { return new(Role) }, opts...)}
}

// FindByName resolves a role through the unique name index.
func (r *Roles) FindByName(ctx context.Context, name string) (*Role, error) {
	return r.FindByUnique(ctx, "name", name)
}

// Permissions persists Permission records.
type Permissions struct {
	*docstore.Repository[*Permission]
}

// NewPermissions creates the permission repository.
func NewPermissions(store kv.Store, opts ...docstore.Option) *Permissions {
	spec := docstore.Spec{Type: TypePermission, Unique: []string{"name"}}
	return &Permissions{docstore.NewRepository(store, spec, func() *Permission { return new(Permission) }, opts...)}
}

// FindByName resolves a permission through the unique name index.
func (r *Permissions) FindByName(ctx context.Context, name string) (*Permission, error) {
	return r.FindByUnique(ctx, "name", name)
}

// Categories persists Category records.
type Categories struct {
	*docstore.Repository[*Category]
}

// NewCategories creates the category repository.
func NewCategories(store kv.Store, opts ...docstore.Option) *Categories {
	spec := docstore.Spec{Type: TypeCategory, Unique: []string{"name"}}
	return &Categories{docstore.NewRepository(store, spec, func() *Category { return new(Category) }, opts...)}
}

// FindByName resolves a category through the unique name index.
func (r *Categories) FindByName(ctx context.Context, name string) (*Category, error) {
	return r.FindByUnique(ctx, "name", name)
}

// Dishes persists Dish records and the per-category dish sets.
type Dishes struct {
	*docstore.Repository[*Dish]
}

// NewDishes creates the dish repository.
func NewDishes(store kv.Store, opts ...docstore.Option) *Dishes {
	spec := docstore.Spec{
		Type: TypeDish,
		Owners: []docstore.OwnerRef{
			{Field: "category_id", OwnerType: TypeCategory, Collection: "dishes"},
		},
	}
	return &Dishes{docstore.NewRepository(store, spec, func() *Dish { return new(Dish) }, opts...)}
}

// FindByCategory returns the dishes of a category.
func (r *Dishes) FindByCategory(ctx context.Context, categoryID string) ([]*Dish, error) {
	return r.FindByOwner(ctx, TypeCategory, categoryID, "dishes")
}

// Carts persists Cart records; one cart per user.
type Carts struct {
	*docstore.Repository[*Cart]
}

// NewCarts creates the cart repository.
func NewCarts(store kv.Store, opts ...docstore.Option) *Carts {
	spec := docstore.Spec{Type: TypeCart, Unique: []string{"user_id"}}
	return &Carts{docstore.NewRepository(store, spec, func() *Cart { return new(Cart) }, opts...)}
}

// FindByUser resolves a user's cart.
func (r *Carts) FindByUser(ctx context.Context, userID string) (*Cart, error) {
	return r.FindByUnique(ctx, "user_id", userID)
}

// CartItems persists CartItem records and the per-cart item sets.
type CartItems struct {
	*docstore.Repository[*CartItem]
}

// NewCartItems creates the cart-item repository.
func NewCartItems(store kv.Store, opts ...docstore.Option) *CartItems {
	spec := docstore.Spec{
		Type: TypeCartItem,
		Owners: []docstore.OwnerRef{
			{Field: "cart_id", OwnerType: TypeCart, Collection: "items"},
		},
	}
	return &CartItems{docstore.NewRepository(store, spec, func() *CartItem { return new(CartItem) }, opts...)}
}

// FindByCart returns the items of a cart.
func (r *CartItems) FindByCart(ctx context.Context, cartID string) ([]*CartItem, error) {
	return r.FindByOwner(ctx, TypeCart, cartID, "items")
}

// Orders persists Order records and the per-user order sets.
type Orders struct {
	*docstore.Repository[*Order]
}

// NewOrders creates the order repository.
func NewOrders(store kv.Store, opts ...docstore.Option) *Orders {
	spec := docstore.Spec{
		Type: TypeOrder,
		Owners: []docstore.OwnerRef{
			{Field: "user_id", OwnerType: TypeUser, Collection: "orders"},
		},
	}
	return &Orders{docstore.NewRepository(store, spec, func() *Order { return new(Order) }, opts...)}
}

// FindByUser returns a user's orders.
func (r *Orders) FindByUser(ctx context.Context, userID string) ([]*Order, error) {
	return r.FindByOwner(ctx, TypeUser, userID, "orders")
}

// OrderItems persists OrderItem records and the per-order detail sets.
type OrderItems struct {
	*docstore.Repository[*OrderItem]
}

// NewOrderItems creates the order-item repository.
func NewOrderItems(store kv.Store, opts ...docstore.Option) *OrderItems {
	spec := docstore.Spec{
		Type: TypeOrderItem,
		Owners: []docstore.OwnerRef{
			{Field: "order_id", OwnerType: TypeOrder, Collection: "details"},
		},
	}
	return &OrderItems{docstore.NewRepository(store, spec, func() *OrderItem { return new(OrderItem) }, opts...)}
}

// FindByOrder returns the detail lines of an order.
func (r *OrderItems) FindByOrder(ctx context.Context, orderID string) ([]*OrderItem, error) {
	return r.FindByOwner(ctx, TypeOrder, orderID, "details")
}

// NewCachedDishes wraps the dish repository in a read-through cache;
// the menu is the read-heaviest surface of the system.
func NewCachedDishes(store kv.Store, ttl time.Duration, opts ...cache.Option) *cache.Repository[*Dish] {
	return cache.NewRepository(NewDishes(store).Repository, store, ttl,
		func() *Dish { return new(Dish) }, opts...)
}

// NewCachedCategories wraps the category repository in a read-through
// cache.
func NewCachedCategories(store kv.Store, ttl time.Duration, opts ...cache.Option) *cache.Repository[*Category] {
	return cache.NewRepository(NewCategories(store).Repository, store, ttl,
		func() *Category { return new(Category) }, opts...)
}
