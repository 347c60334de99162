package database

// sqliteSchema contains the statements for creating tables and indexes on SQLite.
var sqliteSchema = []string{
	// Users table: companions of the fellowship
	`CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL
)`,

	// Activities table: one logged journey, removed with its user
	`CREATE TABLE IF NOT EXISTS activities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    duration REAL NOT NULL,
    calories INTEGER NOT NULL,
    started INTEGER NOT NULL,  -- Unix milliseconds
    user_id INTEGER NOT NULL,
    steps INTEGER NOT NULL DEFAULT 0,
    distance_km REAL NOT NULL DEFAULT 0,

    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`,

	`CREATE TABLE IF NOT EXISTS milestones (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    target_steps INTEGER NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS achievements (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    target_distance_km REAL NOT NULL,
    badge_path TEXT NOT NULL DEFAULT ''
)`,

	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_user_id ON activities(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_name ON milestones(name)`,
	`CREATE INDEX IF NOT EXISTS idx_achievements_target ON achievements(target_distance_km)`,
}

// postgresSchema mirrors sqliteSchema with Postgres column types and widths.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS activities (
    id BIGSERIAL PRIMARY KEY,
    description VARCHAR(100) NOT NULL,
    duration DOUBLE PRECISION NOT NULL,
    calories INTEGER NOT NULL,
    started BIGINT NOT NULL,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    steps INTEGER NOT NULL DEFAULT 0,
    distance_km DOUBLE PRECISION NOT NULL DEFAULT 0
)`,

	`CREATE TABLE IF NOT EXISTS milestones (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(20) NOT NULL,
    description VARCHAR(100) NOT NULL,
    target_steps INTEGER NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS achievements (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    description VARCHAR(255) NOT NULL,
    target_distance_km DOUBLE PRECISION NOT NULL,
    badge_path VARCHAR(255) NOT NULL DEFAULT ''
)`,

	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_user_id ON activities(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_name ON milestones(name)`,
	`CREATE INDEX IF NOT EXISTS idx_achievements_target ON achievements(target_distance_km)`,
}
