package database

import "database/sql"

const createUsers = `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(16) NOT NULL DEFAULT 'CUSTOMER',
	role_approved BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB;
`

const createCinemas = `
CREATE TABLE IF NOT EXISTS cinemas (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB;
`

const createScreens = `
CREATE TABLE IF NOT EXISTS screens (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	cinema_id BIGINT UNSIGNED NOT NULL,
	name VARCHAR(64) NOT NULL,
	UNIQUE KEY uq_screens_cinema_name (cinema_id, name),
	FOREIGN KEY (cinema_id) REFERENCES cinemas(id)
) ENGINE=InnoDB;
`

const createSeats = `
CREATE TABLE IF NOT EXISTS seats (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	screen_id BIGINT UNSIGNED NOT NULL,
	label VARCHAR(8) NOT NULL,
	seat_type VARCHAR(16) NOT NULL DEFAULT 'REGULAR',
	UNIQUE KEY uq_seats_screen_label (screen_id, label),
	FOREIGN KEY (screen_id) REFERENCES screens(id)
) ENGINE=InnoDB;
`

const createShows = `
CREATE TABLE IF NOT EXISTS shows (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	movie_title VARCHAR(255) NOT NULL,
	screen_id BIGINT UNSIGNED NOT NULL,
	starts_at DATETIME NOT NULL,
	price_cents BIGINT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (screen_id) REFERENCES screens(id)
) ENGINE=InnoDB;
`

// The unique key on (show_id, seat_label) is what makes lock
// acquisition safe under concurrency; do not drop it.
const createSeatLocks = `
CREATE TABLE IF NOT EXISTS seat_locks (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	show_id BIGINT UNSIGNED NOT NULL,
	seat_label VARCHAR(8) NOT NULL,
	user_id BIGINT UNSIGNED NOT NULL,
	locked_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL,
	UNIQUE KEY uq_seat_locks_show_seat (show_id, seat_label),
	KEY idx_seat_locks_expires (expires_at),
	KEY idx_seat_locks_holder (show_id, user_id),
	FOREIGN KEY (show_id) REFERENCES shows(id),
	FOREIGN KEY (user_id) REFERENCES users(id)
) ENGINE=InnoDB;
`

const createBookings = `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	code CHAR(36) NOT NULL UNIQUE,
	show_id BIGINT UNSIGNED NOT NULL,
	user_id BIGINT UNSIGNED NOT NULL,
	total_amount_cents BIGINT NOT NULL,
	status ENUM('pending','confirmed','cancelled','used') NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_bookings_user (user_id),
	KEY idx_bookings_show_status (show_id, status),
	FOREIGN KEY (show_id) REFERENCES shows(id),
	FOREIGN KEY (user_id) REFERENCES users(id)
) ENGINE=InnoDB;
`

const createBookingSeats = `
CREATE TABLE IF NOT EXISTS booking_seats (
	booking_id BIGINT UNSIGNED NOT NULL,
	show_id BIGINT UNSIGNED NOT NULL,
	seat_label VARCHAR(8) NOT NULL,
	PRIMARY KEY (booking_id, seat_label),
	KEY idx_booking_seats_show (show_id, seat_label),
	FOREIGN KEY (booking_id) REFERENCES bookings(id),
	FOREIGN KEY (show_id) REFERENCES shows(id)
) ENGINE=InnoDB;
`

// Migrate creates the schema when it does not exist yet.  Statements
// are ordered so foreign keys always reference existing tables.
func Migrate(db *sql.DB) error {
	stmts := []string{
		createUsers,
		createCinemas,
		createScreens,
		createSeats,
		createShows,
		createSeatLocks,
		createBookings,
		createBookingSeats,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
