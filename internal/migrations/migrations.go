package migrations

import (
	"database/sql"
	"github.com/lopezator/migrator"
)

// Up применяет все миграции схемы. Каждая миграция выполняется в своей
// транзакции, поэтому частично созданных таблиц и типов не остается.
func Up(db *sql.DB) error {
	m, err := migrator.New(
		migrator.TableName("schema_migrations"),
		migrator.Migrations(
			statements("Create users table", `
CREATE TABLE users
(
    id            integer GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    login         varchar(20)  NOT NULL UNIQUE,
    password_hash varchar(100) NOT NULL,
    role          varchar(20)  NOT NULL DEFAULT 'customer'
)`),
			statements("Create tokens table", `
CREATE TABLE tokens
(
    id         integer GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    user_id    integer     NOT NULL REFERENCES users (id),
    token      char(64)    NOT NULL UNIQUE,
    created_at timestamptz NOT NULL DEFAULT now()
)`),
			statements("Create bake sales table", `
CREATE TABLE bake_sales
(
    id          text PRIMARY KEY,
    date        date    NOT NULL,
    location_id text    NOT NULL,
    is_active   boolean NOT NULL DEFAULT true
)`),
			statements(
				"Create orders table",
				"CREATE TYPE order_status AS ENUM ('pending', 'processing', 'ready', 'action_required', 'cancelled', 'fulfilled')",
				"CREATE TYPE payment_status AS ENUM ('pending', 'completed', 'failed', 'refunded')",
				`
CREATE TABLE orders
(
    id             text PRIMARY KEY,
    order_number   integer UNIQUE,
    status         order_status   NOT NULL DEFAULT 'pending',
    payment_status payment_status NOT NULL DEFAULT 'pending',
    bake_sale_id   text REFERENCES bake_sales (id),
    customer_email text NOT NULL DEFAULT '',
    customer_name  text NOT NULL DEFAULT '',
    created_at     timestamptz NOT NULL DEFAULT now(),
    updated_at     timestamptz NOT NULL DEFAULT now()
)`,
				"CREATE INDEX orders_status_bake_sale_idx ON orders (status, bake_sale_id)",
			),
			statements(
				"Index active bake sales by date",
				"CREATE INDEX bake_sales_date_idx ON bake_sales (date) WHERE is_active",
			),
		),
	)
	if err != nil {
		return err
	}

	return m.Migrate(db)
}

func statements(name string, queries ...string) *migrator.Migration {
	return &migrator.Migration{
		Name: name,
		Func: func(tx *sql.Tx) error {
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
