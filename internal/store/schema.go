package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS folders (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    icon                 TEXT NOT NULL DEFAULT '',
    position             INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    amount               REAL NOT NULL,
    anchor_date          TEXT NOT NULL,
    recurrence           TEXT NOT NULL,
    tag                  TEXT NOT NULL,
    folder_id            TEXT,
    link                 TEXT,
    archived             INTEGER NOT NULL DEFAULT 0,
    position             INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_folder ON subscriptions(folder_id);
`
