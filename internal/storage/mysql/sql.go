package mysql

// Schema is applied by deployments (and the integration test harness).
// The aggregate travels as a JSON payload; reference and guest emails are
// lifted into columns for lookup.
const Schema = `
CREATE TABLE IF NOT EXISTS bookings (
  id           VARCHAR(64)  NOT NULL,
  reference    VARCHAR(32)  NOT NULL,
  status       VARCHAR(24)  NOT NULL,
  guest_emails TEXT         NOT NULL,
  payload      JSON         NOT NULL,
  created_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  UNIQUE KEY uq_bookings_reference (reference),
  KEY idx_bookings_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

const upsertBookingSQL = `
INSERT INTO bookings (id, reference, status, guest_emails, payload)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  status       = VALUES(status),
  guest_emails = VALUES(guest_emails),
  payload      = VALUES(payload)
`

const getBookingSQL = `SELECT payload FROM bookings WHERE id = ?`

const getByReferenceSQL = `SELECT payload FROM bookings WHERE reference = ?`

const findByEmailSQL = `SELECT payload FROM bookings WHERE guest_emails LIKE ? ORDER BY created_at DESC`
