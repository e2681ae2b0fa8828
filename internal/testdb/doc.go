// Package testdb provides helpers for Postgres integration tests.
//
// Tests skip unless DATABASE_URL (or TASKLINK_TEST_DB_URL) is set. The schema
// is migrated once per process from the embedded goose migrations, and
// WithTx runs a test body inside a transaction that is always rolled back:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)
//	        // ...
//	    })
//	}
package testdb
