package sqlstore

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS products(
  id             TEXT PRIMARY KEY,
  name           TEXT NOT NULL,
  brand          TEXT NOT NULL,
  unit           TEXT NOT NULL CHECK (unit IN ('count','area')),
  quantity       TEXT NOT NULL CHECK (CAST(quantity AS REAL) >= 0),
  purchase_price TEXT NOT NULL,
  sale_price     TEXT NOT NULL,
  created_at     DATETIME NOT NULL,
  updated_at     DATETIME NOT NULL,
  UNIQUE(name, brand)
)`,
	`CREATE TABLE IF NOT EXISTS users(
  id            TEXT PRIMARY KEY,
  name          TEXT NOT NULL,
  email         TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role          TEXT NOT NULL CHECK (role IN ('admin','vendedor')),
  created_at    DATETIME NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS sales(
  id         TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL,
  total      TEXT NOT NULL,
  created_at DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at)`,
	`CREATE TABLE IF NOT EXISTS sale_lines(
  id         TEXT PRIMARY KEY,
  sale_id    TEXT NOT NULL REFERENCES sales(id),
  line_no    INTEGER NOT NULL,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity   TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  line_total TEXT NOT NULL,
  UNIQUE(sale_id, line_no)
)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
  id             VARCHAR(36) PRIMARY KEY,
  name           VARCHAR(191) NOT NULL,
  brand          VARCHAR(191) NOT NULL,
  unit           VARCHAR(8) NOT NULL,
  quantity       DECIMAL(14,3) NOT NULL,
  purchase_price DECIMAL(14,2) NOT NULL,
  sale_price     DECIMAL(14,2) NOT NULL,
  created_at     DATETIME(6) NOT NULL,
  updated_at     DATETIME(6) NOT NULL,
  UNIQUE KEY uq_products_name_brand (name, brand),
  CONSTRAINT chk_products_quantity CHECK (quantity >= 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
  id            VARCHAR(36) PRIMARY KEY,
  name          VARCHAR(191) NOT NULL,
  email         VARCHAR(191) NOT NULL UNIQUE,
  password_hash VARCHAR(100) NOT NULL,
  role          VARCHAR(16) NOT NULL,
  created_at    DATETIME(6) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sales (
  id         VARCHAR(36) PRIMARY KEY,
  user_id    VARCHAR(36) NOT NULL,
  total      DECIMAL(19,5) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_sales_created_at (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sale_lines (
  id         VARCHAR(36) PRIMARY KEY,
  sale_id    VARCHAR(36) NOT NULL,
  line_no    INT NOT NULL,
  product_id VARCHAR(36) NOT NULL,
  quantity   DECIMAL(14,3) NOT NULL,
  unit_price DECIMAL(14,2) NOT NULL,
  line_total DECIMAL(19,5) NOT NULL,
  UNIQUE KEY uq_sale_lines_line (sale_id, line_no),
  CONSTRAINT fk_sale_lines_sale FOREIGN KEY (sale_id) REFERENCES sales(id),
  CONSTRAINT fk_sale_lines_product FOREIGN KEY (product_id) REFERENCES products(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// mysqlAmountColumns columnas de importe que bases antiguas crearon con 2 decimales.
var mysqlAmountColumns = []struct{ table, column string }{
	{"sales", "total"},
	{"sale_lines", "line_total"},
}
