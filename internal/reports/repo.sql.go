package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLRepository implements Repository against PostgreSQL.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewSQLRepository constructs the reporting repository.
func NewSQLRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

var _ Repository = (*SQLRepository)(nil)

// ListProducts returns products joined with category and supplier names.
func (r *SQLRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}

	var conditions []string
	var args []interface{}
	argPos := 1

	if !filter.IncludeInactive {
		conditions = append(conditions, "p.is_active = TRUE")
	}
	if filter.CategoryID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argPos))
		args = append(args, filter.CategoryID)
		argPos++
	}
	if filter.SupplierID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("p.supplier_id = $%d", argPos))
		args = append(args, filter.SupplierID)
		argPos++
	}
	if filter.LowStockOnly {
		conditions = append(conditions, "p.quantity_in_stock <= p.reorder_level")
	}
	if filter.InStockOnly {
		conditions = append(conditions, "p.quantity_in_stock > 0")
	}
	if !filter.UpdatedFrom.IsZero() {
		conditions = append(conditions, fmt.Sprintf("p.updated_at >= $%d", argPos))
		args = append(args, filter.UpdatedFrom)
		argPos++
	}
	if !filter.UpdatedTo.IsZero() {
		conditions = append(conditions, fmt.Sprintf("p.updated_at < $%d", argPos))
		args = append(args, filter.UpdatedTo)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.sku, p.category_id, c.name AS category_name,
		       p.supplier_id, s.name AS supplier_name,
		       p.price, p.cost, p.quantity_in_stock, p.reorder_level,
		       p.is_active, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON p.category_id = c.id
		LEFT JOIN suppliers s ON p.supplier_id = s.id
		%s
		ORDER BY p.name ASC
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductRow
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(
			&p.ID, &p.Name, &p.SKU, &p.CategoryID, &p.CategoryName,
			&p.SupplierID, &p.SupplierName,
			&p.Price, &p.Cost, &p.QuantityInStock, &p.ReorderLevel,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListMovements returns stock movement facts in the window, newest first.
func (r *SQLRepository) ListMovements(ctx context.Context, filter MovementFilter) ([]MovementRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}

	conditions := []string{"m.created_at >= $1", "m.created_at < $2"}
	args := []interface{}{filter.From, filter.To}
	argPos := 3

	if filter.CategoryID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argPos))
		args = append(args, filter.CategoryID)
		argPos++
	}
	if filter.SupplierID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("p.supplier_id = $%d", argPos))
		args = append(args, filter.SupplierID)
		argPos++
	}
	if filter.UserID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("m.created_by = $%d", argPos))
		args = append(args, filter.UserID)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.product_id, p.name, p.sku, c.name AS category_name,
		       m.movement_type, m.quantity, m.reference_type, m.reference_id,
		       m.created_by, u.username, m.created_at
		FROM stock_movements m
		JOIN products p ON m.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		LEFT JOIN users u ON m.created_by = u.id
		%s
		ORDER BY m.created_at DESC, m.id DESC
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MovementRow
	for rows.Next() {
		var m MovementRow
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.ProductName, &m.ProductSKU, &m.CategoryName,
			&m.MovementType, &m.Quantity, &m.ReferenceType, &m.ReferenceID,
			&m.CreatedBy, &m.UserName, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MovementTotals aggregates per-product in/out/adjustment quantities.
func (r *SQLRepository) MovementTotals(ctx context.Context, from, to time.Time, categoryID, supplierID int64) ([]MovementTotalsRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}

	conditions := []string{"m.created_at >= $1", "m.created_at < $2"}
	args := []interface{}{from, to}
	argPos := 3

	if categoryID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argPos))
		args = append(args, categoryID)
		argPos++
	}
	if supplierID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("p.supplier_id = $%d", argPos))
		args = append(args, supplierID)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	query := fmt.Sprintf(`
		SELECT m.product_id,
		       COALESCE(SUM(m.quantity) FILTER (WHERE m.movement_type = 'IN'), 0),
		       COALESCE(SUM(m.quantity) FILTER (WHERE m.movement_type = 'OUT'), 0),
		       COALESCE(SUM(m.quantity) FILTER (WHERE m.movement_type = 'ADJUSTMENT'), 0),
		       COUNT(*)
		FROM stock_movements m
		JOIN products p ON m.product_id = p.id
		%s
		GROUP BY m.product_id
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MovementTotalsRow
	for rows.Next() {
		var t MovementTotalsRow
		if err := rows.Scan(&t.ProductID, &t.TotalIn, &t.TotalOut, &t.TotalAdjustments, &t.MovementCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LastInboundDates returns the latest inbound or adjustment movement per
// product, the timestamp aging is measured from.
func (r *SQLRepository) LastInboundDates(ctx context.Context) (map[int64]time.Time, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}
	const query = `
		SELECT product_id, MAX(created_at)
		FROM stock_movements
		WHERE movement_type IN ('IN', 'ADJUSTMENT')
		GROUP BY product_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]time.Time)
	for rows.Next() {
		var id int64
		var ts time.Time
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, err
		}
		out[id] = ts
	}
	return out, rows.Err()
}

// ListSales returns sale headers with customer, creator and item count.
func (r *SQLRepository) ListSales(ctx context.Context, filter SaleFilter) ([]SaleRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}

	dateCol := "s.sale_date"
	if filter.ByCreatedAt {
		dateCol = "s.created_at"
	}

	conditions := []string{dateCol + " >= $1", dateCol + " < $2"}
	args := []interface{}{filter.From, filter.To}
	argPos := 3

	if filter.CustomerID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("s.customer_id = $%d", argPos))
		args = append(args, filter.CustomerID)
		argPos++
	}
	if filter.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("s.payment_status = $%d", argPos))
		args = append(args, filter.PaymentStatus)
		argPos++
	}
	if filter.UserID != FilterAll {
		conditions = append(conditions, fmt.Sprintf("s.created_by = $%d", argPos))
		args = append(args, filter.UserID)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.sale_number, s.customer_id, c.name AS customer_name,
		       s.sale_date, s.subtotal, s.tax_amount, s.total_amount,
		       s.payment_method, s.payment_status,
		       s.created_by, u.username, s.created_at,
		       (SELECT COUNT(*) FROM sale_items si WHERE si.sale_id = s.id) AS item_count
		FROM sales s
		JOIN customers c ON s.customer_id = c.id
		LEFT JOIN users u ON s.created_by = u.id
		%s
		ORDER BY s.sale_date DESC, s.id DESC
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaleRow
	for rows.Next() {
		var s SaleRow
		if err := rows.Scan(
			&s.ID, &s.SaleNumber, &s.CustomerID, &s.CustomerName,
			&s.SaleDate, &s.Subtotal, &s.TaxAmount, &s.TotalAmount,
			&s.PaymentMethod, &s.PaymentStatus,
			&s.CreatedBy, &s.CreatedByName, &s.CreatedAt, &s.ItemCount,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SalesInRange returns the minimal date/amount projection for bucketing.
func (r *SQLRepository) SalesInRange(ctx context.Context, from, to time.Time) ([]SaleDateAmount, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}
	const query = `
		SELECT sale_date, total_amount
		FROM sales
		WHERE sale_date >= $1 AND sale_date < $2
		ORDER BY sale_date ASC
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaleDateAmount
	for rows.Next() {
		var s SaleDateAmount
		if err := rows.Scan(&s.SaleDate, &s.TotalAmount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ProductSales aggregates sold quantity and revenue per product.
func (r *SQLRepository) ProductSales(ctx context.Context, from, to time.Time, productID int64) ([]ProductSalesRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}

	conditions := []string{"s.sale_date >= $1", "s.sale_date < $2"}
	args := []interface{}{from, to}
	if productID != FilterAll {
		conditions = append(conditions, "p.id = $3")
		args = append(args, productID)
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.sku, c.name AS category_name,
		       p.price, p.cost, p.quantity_in_stock,
		       COALESCE(SUM(si.quantity), 0) AS quantity_sold,
		       COALESCE(SUM(si.total_price), 0) AS revenue
		FROM sale_items si
		JOIN sales s ON si.sale_id = s.id
		JOIN products p ON si.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		%s
		GROUP BY p.id, p.name, p.sku, c.name, p.price, p.cost, p.quantity_in_stock
		ORDER BY revenue DESC
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductSalesRow
	for rows.Next() {
		var p ProductSalesRow
		if err := rows.Scan(
			&p.ProductID, &p.Name, &p.SKU, &p.CategoryName,
			&p.Price, &p.Cost, &p.CurrentStock,
			&p.QuantitySold, &p.Revenue,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ProductSoldQuantities maps product id to units sold in the window.
func (r *SQLRepository) ProductSoldQuantities(ctx context.Context, from, to time.Time) (map[int64]int64, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}
	const query = `
		SELECT si.product_id, COALESCE(SUM(si.quantity), 0)
		FROM sale_items si
		JOIN sales s ON si.sale_id = s.id
		WHERE s.sale_date >= $1 AND s.sale_date < $2
		GROUP BY si.product_id
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]int64)
	for rows.Next() {
		var id, qty int64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		out[id] = qty
	}
	return out, rows.Err()
}

// CustomerSales aggregates order counts and spend per customer.
func (r *SQLRepository) CustomerSales(ctx context.Context, from, to time.Time, customerID int64) ([]CustomerSalesRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}

	conditions := []string{"s.sale_date >= $1", "s.sale_date < $2"}
	args := []interface{}{from, to}
	if customerID != FilterAll {
		conditions = append(conditions, "c.id = $3")
		args = append(args, customerID)
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.name, c.customer_type,
		       COUNT(s.id) AS total_orders,
		       COALESCE(SUM(s.total_amount), 0) AS total_spent,
		       MAX(s.sale_date) AS last_order_date
		FROM sales s
		JOIN customers c ON s.customer_id = c.id
		%s
		GROUP BY c.id, c.name, c.customer_type
		ORDER BY total_spent DESC
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomerSalesRow
	for rows.Next() {
		var c CustomerSalesRow
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.CustomerType, &c.TotalOrders, &c.TotalSpent, &c.LastOrderDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListSuppliers returns active suppliers with their product counts.
func (r *SQLRepository) ListSuppliers(ctx context.Context, supplierID int64) ([]SupplierRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}

	conditions := []string{"s.is_active = TRUE"}
	var args []interface{}
	if supplierID != FilterAll {
		conditions = append(conditions, "s.id = $1")
		args = append(args, supplierID)
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.name, COALESCE(s.contact_person, ''), COALESCE(s.email, ''), COALESCE(s.phone, ''),
		       (SELECT COUNT(*) FROM products p WHERE p.supplier_id = s.id) AS product_count
		FROM suppliers s
		%s
		ORDER BY s.name ASC
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SupplierRow
	for rows.Next() {
		var s SupplierRow
		if err := rows.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.ProductCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PeriodTotals aggregates revenue, order count and distinct buyers.
func (r *SQLRepository) PeriodTotals(ctx context.Context, from, to time.Time) (PeriodTotals, error) {
	if r == nil || r.pool == nil {
		return PeriodTotals{}, fmt.Errorf("reports repo not initialised")
	}
	const query = `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*), COUNT(DISTINCT customer_id)
		FROM sales
		WHERE sale_date >= $1 AND sale_date < $2
	`
	var t PeriodTotals
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&t.Revenue, &t.Orders, &t.Customers); err != nil {
		return PeriodTotals{}, err
	}
	return t, nil
}

// InventoryCounts returns the point-in-time inventory KPI counters.
func (r *SQLRepository) InventoryCounts(ctx context.Context) (InventoryCounts, error) {
	if r == nil || r.pool == nil {
		return InventoryCounts{}, fmt.Errorf("reports repo not initialised")
	}
	const query = `
		SELECT
		  (SELECT COUNT(*) FROM products WHERE is_active = TRUE),
		  (SELECT COUNT(*) FROM products WHERE is_active = TRUE AND quantity_in_stock <= reorder_level),
		  (SELECT COUNT(*) FROM customers)
	`
	var c InventoryCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&c.ActiveProducts, &c.LowStockItems, &c.TotalCustomers); err != nil {
		return InventoryCounts{}, err
	}
	return c, nil
}

// ListUserLogins returns users whose last login falls in the window.
func (r *SQLRepository) ListUserLogins(ctx context.Context, from, to time.Time, userID int64) ([]UserLoginRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}

	conditions := []string{"u.last_login >= $1", "u.last_login < $2"}
	args := []interface{}{from, to}
	if userID != FilterAll {
		conditions = append(conditions, "u.id = $3")
		args = append(args, userID)
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.username, u.last_login
		FROM users u
		%s
		ORDER BY u.last_login DESC
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserLoginRow
	for rows.Next() {
		var u UserLoginRow
		if err := rows.Scan(&u.UserID, &u.Username, &u.LastLogin); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// OrderNumbers resolves order ids to their order numbers.
func (r *SQLRepository) OrderNumbers(ctx context.Context, ids []int64) (map[int64]string, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	const query = `SELECT id, order_number FROM orders WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var number string
		if err := rows.Scan(&id, &number); err != nil {
			return nil, err
		}
		out[id] = number
	}
	return out, rows.Err()
}

// ProjectNames resolves project ids to their names.
func (r *SQLRepository) ProjectNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("reports repo not initialised")
	}
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	const query = `SELECT id, name FROM projects WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}
