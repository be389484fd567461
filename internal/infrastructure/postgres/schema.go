package postgres

// Schema is the relational schema this service owns. The catalog
// (products, variants) and order tables are owned by their respective
// services; they are created here only so a standalone deployment can
// run, and stay untouched when they already exist.
const Schema = `
CREATE TABLE IF NOT EXISTS locations (
	id     BIGSERIAL PRIMARY KEY,
	name   TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS products (
	id     BIGSERIAL PRIMARY KEY,
	name   TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS variants (
	id               BIGSERIAL PRIMARY KEY,
	product_id       BIGINT NOT NULL REFERENCES products (id),
	name             TEXT NOT NULL,
	sku              TEXT NOT NULL,
	price            NUMERIC(12, 2) NOT NULL DEFAULT 0,
	compare_at_price NUMERIC(12, 2),
	active           BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_sku ON variants (LOWER(sku));

CREATE TABLE IF NOT EXISTS inventory_records (
	id                     BIGSERIAL PRIMARY KEY,
	variant_id             BIGINT NOT NULL REFERENCES variants (id),
	location_id            BIGINT NOT NULL REFERENCES locations (id),
	quantity               INTEGER NOT NULL DEFAULT 0,
	reserved_qty           INTEGER NOT NULL DEFAULT 0,
	low_stock_alert        INTEGER NOT NULL DEFAULT 10,
	barcode                TEXT,
	sell_when_out_of_stock BOOLEAN NOT NULL DEFAULT FALSE,
	version                INTEGER NOT NULL DEFAULT 1,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (variant_id, location_id)
);

CREATE INDEX IF NOT EXISTS idx_inventory_records_variant ON inventory_records (variant_id);
CREATE INDEX IF NOT EXISTS idx_inventory_records_location ON inventory_records (location_id);

CREATE TABLE IF NOT EXISTS inventory_movements (
	id           BIGSERIAL PRIMARY KEY,
	inventory_id BIGINT NOT NULL REFERENCES inventory_records (id),
	quantity     INTEGER NOT NULL,
	type         TEXT NOT NULL,
	reason       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_inventory_movements_inventory ON inventory_movements (inventory_id, created_at DESC);

CREATE TABLE IF NOT EXISTS orders (
	id         BIGSERIAL PRIMARY KEY,
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_items (
	order_id   BIGINT NOT NULL REFERENCES orders (id),
	variant_id BIGINT NOT NULL,
	quantity   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_variant ON order_items (variant_id);
`
