package database

// migrationsSQL holds the forward-only schema migrations by version.
var migrationsSQL = map[int]string{
	1: migrationV1Profiles,
	2: migrationV2Predictions,
}

// migrationV1Profiles creates the cycle profile table.
//
// Lengths and the recurring-symptoms answer are nullable: a NULL means the
// user has not answered, which is different from 0 or false.
const migrationV1Profiles = `
CREATE TABLE IF NOT EXISTS cycle_profiles (
    user_id TEXT PRIMARY KEY,

    cycle_kind TEXT NOT NULL CHECK (cycle_kind IN (
        'regular',
        'irregular',
        'no_period'
    )),

    -- Civil date YYYY-MM-DD
    last_period_start TEXT,
    cycle_length_days INTEGER,
    period_length_days INTEGER,

    -- 0/1, NULL when unanswered
    has_recurring_symptoms INTEGER,
    uses_moon_cycle INTEGER NOT NULL DEFAULT 0,
    widening_window_enabled INTEGER NOT NULL DEFAULT 0,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// migrationV2Predictions creates the generated prediction tables.
// Every row belongs to a profile and goes with it on delete.
const migrationV2Predictions = `
CREATE TABLE IF NOT EXISTS phase_predictions (
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    phase TEXT NOT NULL,

    PRIMARY KEY (user_id, date),
    FOREIGN KEY (user_id) REFERENCES cycle_profiles(user_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS widening_window_days (
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,

    PRIMARY KEY (user_id, date),
    FOREIGN KEY (user_id) REFERENCES cycle_profiles(user_id) ON DELETE CASCADE
);

-- One row per generation; the latest row tells whether data was loaded.
CREATE TABLE IF NOT EXISTS prediction_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    range_start TEXT NOT NULL,
    range_end TEXT NOT NULL,
    phase_days INTEGER NOT NULL DEFAULT 0,
    window_days INTEGER NOT NULL DEFAULT 0,
    generated_at TEXT NOT NULL DEFAULT (datetime('now')),

    FOREIGN KEY (user_id) REFERENCES cycle_profiles(user_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_prediction_runs_user
    ON prediction_runs(user_id, id);
`
