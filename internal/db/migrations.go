package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id SERIAL PRIMARY KEY,
		code VARCHAR(32) NOT NULL,
		name VARCHAR(255) NOT NULL,
		postal_code VARCHAR(16) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_customers_code ON customers (code);`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id SERIAL PRIMARY KEY,
		code VARCHAR(32) NOT NULL,
		name VARCHAR(255) NOT NULL,
		contact_person VARCHAR(100) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_suppliers_code ON suppliers (code);`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		code VARCHAR(32) NOT NULL,
		name VARCHAR(255) NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
		tax_rate INT NOT NULL DEFAULT 10,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_products_code ON products (code);`,
	`CREATE TABLE IF NOT EXISTS projects (
		id SERIAL PRIMARY KEY,
		code VARCHAR(32) NOT NULL,
		customer_id INT NOT NULL REFERENCES customers(id),
		name VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		contract_amount BIGINT,
		description TEXT NOT NULL DEFAULT '',
		created_by INT NOT NULL DEFAULT 0,
		updated_by INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_projects_code ON projects (code);`,
	`CREATE INDEX IF NOT EXISTS idx_projects_customer_id ON projects (customer_id);`,
	`CREATE TABLE IF NOT EXISTS contact_histories (
		id SERIAL PRIMARY KEY,
		project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		contact_date DATE,
		method VARCHAR(50) NOT NULL DEFAULT '',
		staff_name VARCHAR(100) NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contact_histories_project_id ON contact_histories (project_id);`,
	`CREATE TABLE IF NOT EXISTS construction_details (
		id SERIAL PRIMARY KEY,
		project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		contractor_id INT NOT NULL REFERENCES suppliers(id),
		work_name VARCHAR(255) NOT NULL,
		progress INT NOT NULL DEFAULT 0 CHECK (progress >= 0 AND progress <= 100),
		start_date DATE,
		end_date DATE,
		status VARCHAR(20) NOT NULL DEFAULT 'planned',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_construction_details_project_id ON construction_details (project_id);`,
	`CREATE TABLE IF NOT EXISTS quotations (
		id SERIAL PRIMARY KEY,
		quotation_number VARCHAR(32) NOT NULL,
		project_id INT NOT NULL REFERENCES projects(id),
		issue_date DATE NOT NULL DEFAULT CURRENT_DATE,
		valid_until DATE,
		tax_mode VARCHAR(10) NOT NULL DEFAULT 'exclusive',
		subtotal BIGINT NOT NULL DEFAULT 0,
		tax_amount BIGINT NOT NULL DEFAULT 0,
		total_amount BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		notes TEXT NOT NULL DEFAULT '',
		created_by INT NOT NULL DEFAULT 0,
		updated_by INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_quotations_project_id ON quotations (project_id);`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id SERIAL PRIMARY KEY,
		invoice_number VARCHAR(32) NOT NULL,
		project_id INT NOT NULL REFERENCES projects(id),
		issue_date DATE NOT NULL DEFAULT CURRENT_DATE,
		due_date DATE,
		tax_mode VARCHAR(10) NOT NULL DEFAULT 'exclusive',
		subtotal BIGINT NOT NULL DEFAULT 0,
		tax_amount BIGINT NOT NULL DEFAULT 0,
		total_amount BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		notes TEXT NOT NULL DEFAULT '',
		created_by INT NOT NULL DEFAULT 0,
		updated_by INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_invoices_project_id ON invoices (project_id);`,
	// Detail ids are allocated by the application (max+1 per table), not by
	// a sequence: the client-visible id doubles as the update-vs-insert
	// discriminant.
	`CREATE TABLE IF NOT EXISTS quotation_details (
		id INT PRIMARY KEY,
		quotation_id INT NOT NULL REFERENCES quotations(id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		unit VARCHAR(20) NOT NULL DEFAULT '個',
		unit_price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
		tax_rate INT NOT NULL DEFAULT 10,
		amount BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_quotation_details_quotation_id ON quotation_details (quotation_id);`,
	`CREATE TABLE IF NOT EXISTS invoice_details (
		id INT PRIMARY KEY,
		invoice_id INT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		unit VARCHAR(20) NOT NULL DEFAULT '個',
		unit_price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
		tax_rate INT NOT NULL DEFAULT 10,
		amount BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_invoice_details_invoice_id ON invoice_details (invoice_id);`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
		id SERIAL PRIMARY KEY,
		order_number VARCHAR(32) NOT NULL,
		supplier_id INT NOT NULL REFERENCES suppliers(id),
		project_id INT REFERENCES projects(id),
		order_date DATE NOT NULL DEFAULT CURRENT_DATE,
		expected_date DATE,
		tax_mode VARCHAR(10) NOT NULL DEFAULT 'exclusive',
		subtotal BIGINT NOT NULL DEFAULT 0,
		tax_amount BIGINT NOT NULL DEFAULT 0,
		total_amount BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		approval_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		notes TEXT NOT NULL DEFAULT '',
		created_by INT NOT NULL DEFAULT 0,
		updated_by INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_purchase_orders_number ON purchase_orders (order_number);`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_orders_supplier_id ON purchase_orders (supplier_id);`,
	`CREATE TABLE IF NOT EXISTS purchase_order_details (
		id INT PRIMARY KEY,
		purchase_order_id INT NOT NULL REFERENCES purchase_orders(id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		unit VARCHAR(20) NOT NULL DEFAULT '個',
		unit_price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
		tax_rate INT NOT NULL DEFAULT 10,
		amount BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_order_details_order_id ON purchase_order_details (purchase_order_id);`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id SERIAL PRIMARY KEY,
		expense_number VARCHAR(32) NOT NULL,
		applicant_id INT NOT NULL,
		expense_date DATE NOT NULL DEFAULT CURRENT_DATE,
		category VARCHAR(50) NOT NULL DEFAULT '',
		amount BIGINT NOT NULL DEFAULT 0 CHECK (amount >= 0),
		description TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_expenses_number ON expenses (expense_number);`,
	`CREATE TABLE IF NOT EXISTS expense_approvals (
		id SERIAL PRIMARY KEY,
		expense_id INT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
		step INT NOT NULL DEFAULT 1,
		decision VARCHAR(20) NOT NULL,
		approver_id INT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		decided_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_expense_approvals_expense_id ON expense_approvals (expense_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
