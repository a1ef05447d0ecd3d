package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created := *u
	created.ID = uuid.NewString()
	created.CreatedAt = u.CreatedAt.UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, is_staff, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Username, created.Email, created.PasswordHash,
		created.IsStaff, created.IsActive, toUnix(created.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username or email already exists", domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE username = ?`, username))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, email))
}

const selectUser = `SELECT id, username, email, password_hash, is_staff, is_active, created_at FROM users`

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var (
		u       domain.User
		created int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.IsActive, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = fromUnix(created)
	return &u, nil
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const selectOrder = `SELECT id, owner_id, quantity, pizza_size, flavour, order_status, created_at, updated_at FROM orders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (*domain.Order, error) {
	var (
		o                domain.Order
		size, fl, status string
		created, updated int64
	)
	if err := s.Scan(&o.ID, &o.OwnerID, &o.Quantity, &size, &fl, &status, &created, &updated); err != nil {
		return nil, err
	}
	o.Size = domain.PizzaSize(size)
	o.Flavour = domain.Flavour(fl)
	o.Status = domain.OrderStatus(status)
	o.CreatedAt = fromUnix(created)
	o.UpdatedAt = fromUnix(updated)
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	created := *o
	created.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, owner_id, quantity, pizza_size, flavour, order_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.OwnerID, created.Quantity, string(created.Size), string(created.Flavour),
		string(created.Status), toUnix(created.CreatedAt), toUnix(created.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	created.CreatedAt = fromUnix(toUnix(created.CreatedAt))
	created.UpdatedAt = fromUnix(toUnix(created.UpdatedAt))
	return &created, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return r.list(ctx, selectOrder+` WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, selectOrder+` ORDER BY created_at, id`)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns; owner_id and created_at are untouched.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET quantity = ?, pizza_size = ?, flavour = ?, order_status = ?, updated_at = ?
		 WHERE id = ?`,
		o.Quantity, string(o.Size), string(o.Flavour), string(o.Status), toUnix(o.UpdatedAt), o.ID)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return r.FindByID(ctx, o.ID)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, e *domain.OrderEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_events (order_id, owner_id, actor_id, type, status, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.OrderID, e.OwnerID, e.ActorID, string(e.Type), string(e.Status), toUnix(e.OccurredAt))
	return err
}

// CountEvents returns how many audit rows exist for an order.
func (r *AuditRepository) CountEvents(ctx context.Context, orderID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_events WHERE order_id = ?`, orderID).Scan(&n)
	return n, err
}
