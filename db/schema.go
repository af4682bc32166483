package db

// schema defines the SQL statements to create the application's database
// schema for SQLite. It is designed to be idempotent using `CREATE TABLE IF
// NOT EXISTS` and is run once at store-open time. Schema changes are made
// here and recorded by bumping schemaVersion; there is no ad hoc per-load
// column patching.
//
// Identifiers are INTEGER PRIMARY KEY rowid aliases: SQLite assigns
// max(id)+1 on insert (1 for an empty table), which preserves the
// bookkeeping convention of table-local, 1-based, monotonic identifiers.

// schemaVersion is recorded in the schema_version table at initialisation.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sales (
    id                   INTEGER PRIMARY KEY,
    date                 DATE NOT NULL,

    petrol_c3_open       REAL NOT NULL DEFAULT 0,
    petrol_c3_close      REAL NOT NULL DEFAULT 0,
    petrol_c3_sales      REAL NOT NULL DEFAULT 0,
    petrol_c4_open       REAL NOT NULL DEFAULT 0,
    petrol_c4_close      REAL NOT NULL DEFAULT 0,
    petrol_c4_sales      REAL NOT NULL DEFAULT 0,
    petrol_a1_open       REAL NOT NULL DEFAULT 0,
    petrol_a1_close      REAL NOT NULL DEFAULT 0,
    petrol_a1_sales      REAL NOT NULL DEFAULT 0,
    petrol_a2_open       REAL NOT NULL DEFAULT 0,
    petrol_a2_close      REAL NOT NULL DEFAULT 0,
    petrol_a2_sales      REAL NOT NULL DEFAULT 0,

    hsd_c1_open          REAL NOT NULL DEFAULT 0,
    hsd_c1_close         REAL NOT NULL DEFAULT 0,
    hsd_c1_sales         REAL NOT NULL DEFAULT 0,
    hsd_c2_open          REAL NOT NULL DEFAULT 0,
    hsd_c2_close         REAL NOT NULL DEFAULT 0,
    hsd_c2_sales         REAL NOT NULL DEFAULT 0,
    hsd_b1_open          REAL NOT NULL DEFAULT 0,
    hsd_b1_close         REAL NOT NULL DEFAULT 0,
    hsd_b1_sales         REAL NOT NULL DEFAULT 0,
    hsd_b2_open          REAL NOT NULL DEFAULT 0,
    hsd_b2_close         REAL NOT NULL DEFAULT 0,
    hsd_b2_sales         REAL NOT NULL DEFAULT 0,

    xp_b3_open           REAL NOT NULL DEFAULT 0,
    xp_b3_close          REAL NOT NULL DEFAULT 0,
    xp_b3_sales          REAL NOT NULL DEFAULT 0,
    xp_b4_open           REAL NOT NULL DEFAULT 0,
    xp_b4_close          REAL NOT NULL DEFAULT 0,
    xp_b4_sales          REAL NOT NULL DEFAULT 0,

    test_b1              REAL NOT NULL DEFAULT 0,
    test_b2              REAL NOT NULL DEFAULT 0,
    test_b3              REAL NOT NULL DEFAULT 0,
    test_b4              REAL NOT NULL DEFAULT 0,

    petrol_rate          REAL NOT NULL DEFAULT 0,
    hsd_rate             REAL NOT NULL DEFAULT 0,
    xp_rate              REAL NOT NULL DEFAULT 0,

    petrol_amount        REAL NOT NULL DEFAULT 0,
    hsd_amount           REAL NOT NULL DEFAULT 0,
    xp_amount            REAL NOT NULL DEFAULT 0,
    oil_total            REAL NOT NULL DEFAULT 0,

    gross_sales_amount   REAL NOT NULL DEFAULT 0,
    total_sales_amount   REAL NOT NULL DEFAULT 0,

    paytm_amount         REAL NOT NULL DEFAULT 0,
    icici_amount         REAL NOT NULL DEFAULT 0,
    fleet_card_amount    REAL NOT NULL DEFAULT 0,

    pump_expenses        REAL NOT NULL DEFAULT 0,
    pump_expenses_remark TEXT NOT NULL DEFAULT '',

    cash_in              REAL NOT NULL DEFAULT 0,
    cash_out             REAL NOT NULL DEFAULT 0,
    net_cash             REAL NOT NULL DEFAULT 0,
    credit_balance       REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);

CREATE TABLE IF NOT EXISTS sales_oil_items (
    id        INTEGER PRIMARY KEY,
    sales_id  INTEGER NOT NULL,
    position  INTEGER NOT NULL,
    name      TEXT NOT NULL,
    amount    REAL NOT NULL DEFAULT 0,
    FOREIGN KEY(sales_id) REFERENCES sales(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_sales_oil_items_sales_id ON sales_oil_items(sales_id);

CREATE TABLE IF NOT EXISTS party_ledger (
    id            INTEGER PRIMARY KEY,
    date          DATE NOT NULL,
    party_name    TEXT NOT NULL,
    credit_amount REAL NOT NULL DEFAULT 0,
    debit_amount  REAL NOT NULL DEFAULT 0,
    remark        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_party_ledger_date ON party_ledger(date);

CREATE TABLE IF NOT EXISTS employee_shortage (
    id              INTEGER PRIMARY KEY,
    date            DATE NOT NULL,
    employee_name   TEXT NOT NULL,
    shortage_amount REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_employee_shortage_date ON employee_shortage(date);

CREATE TABLE IF NOT EXISTS owners_transactions (
    id         INTEGER PRIMARY KEY,
    date       DATE NOT NULL,
    owner_name TEXT NOT NULL,
    amount     REAL NOT NULL DEFAULT 0,
    mode       TEXT NOT NULL,
    type       TEXT NOT NULL,
    remark     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_owners_transactions_date ON owners_transactions(date);
`

// salesInsertSQL inserts a derived sales record. Every derived column is
// written as computed by the derivation engine; nothing is recomputed here.
const salesInsertSQL = `
INSERT INTO sales (
    date,
    petrol_c3_open, petrol_c3_close, petrol_c3_sales,
    petrol_c4_open, petrol_c4_close, petrol_c4_sales,
    petrol_a1_open, petrol_a1_close, petrol_a1_sales,
    petrol_a2_open, petrol_a2_close, petrol_a2_sales,
    hsd_c1_open, hsd_c1_close, hsd_c1_sales,
    hsd_c2_open, hsd_c2_close, hsd_c2_sales,
    hsd_b1_open, hsd_b1_close, hsd_b1_sales,
    hsd_b2_open, hsd_b2_close, hsd_b2_sales,
    xp_b3_open, xp_b3_close, xp_b3_sales,
    xp_b4_open, xp_b4_close, xp_b4_sales,
    test_b1, test_b2, test_b3, test_b4,
    petrol_rate, hsd_rate, xp_rate,
    petrol_amount, hsd_amount, xp_amount, oil_total,
    gross_sales_amount, total_sales_amount,
    paytm_amount, icici_amount, fleet_card_amount,
    pump_expenses, pump_expenses_remark,
    cash_in, cash_out, net_cash, credit_balance
) VALUES (
    :date,
    :petrol_c3_open, :petrol_c3_close, :petrol_c3_sales,
    :petrol_c4_open, :petrol_c4_close, :petrol_c4_sales,
    :petrol_a1_open, :petrol_a1_close, :petrol_a1_sales,
    :petrol_a2_open, :petrol_a2_close, :petrol_a2_sales,
    :hsd_c1_open, :hsd_c1_close, :hsd_c1_sales,
    :hsd_c2_open, :hsd_c2_close, :hsd_c2_sales,
    :hsd_b1_open, :hsd_b1_close, :hsd_b1_sales,
    :hsd_b2_open, :hsd_b2_close, :hsd_b2_sales,
    :xp_b3_open, :xp_b3_close, :xp_b3_sales,
    :xp_b4_open, :xp_b4_close, :xp_b4_sales,
    :test_b1, :test_b2, :test_b3, :test_b4,
    :petrol_rate, :hsd_rate, :xp_rate,
    :petrol_amount, :hsd_amount, :xp_amount, :oil_total,
    :gross_sales_amount, :total_sales_amount,
    :paytm_amount, :icici_amount, :fleet_card_amount,
    :pump_expenses, :pump_expenses_remark,
    :cash_in, :cash_out, :net_cash, :credit_balance
);`

// oilItemInsertSQL inserts one oil-product line item for a sales record.
const oilItemInsertSQL = `
INSERT INTO sales_oil_items (sales_id, position, name, amount)
VALUES (:sales_id, :position, :name, :amount);`

// salesGetSQL retrieves sales records for an inclusive date range in
// insertion order.
const salesGetSQL = `
SELECT * FROM sales
WHERE date BETWEEN ? AND ?
ORDER BY id;`

// oilItemsGetSQL retrieves the oil items for a set of sales records in
// record and line order. The IN clause is expanded with sqlx.In.
const oilItemsGetSQL = `
SELECT id, sales_id, position, name, amount FROM sales_oil_items
WHERE sales_id IN (?)
ORDER BY sales_id, position;`

const partyInsertSQL = `
INSERT INTO party_ledger (date, party_name, credit_amount, debit_amount, remark)
VALUES (:date, :party_name, :credit_amount, :debit_amount, :remark);`

const partyGetSQL = `
SELECT * FROM party_ledger
WHERE date BETWEEN ? AND ?
ORDER BY id;`

const shortageInsertSQL = `
INSERT INTO employee_shortage (date, employee_name, shortage_amount)
VALUES (:date, :employee_name, :shortage_amount);`

const shortageGetSQL = `
SELECT * FROM employee_shortage
WHERE date BETWEEN ? AND ?
ORDER BY id;`

const ownerInsertSQL = `
INSERT INTO owners_transactions (date, owner_name, amount, mode, type, remark)
VALUES (:date, :owner_name, :amount, :mode, :type, :remark);`

const ownerGetSQL = `
SELECT * FROM owners_transactions
WHERE date BETWEEN ? AND ?
ORDER BY id;`
