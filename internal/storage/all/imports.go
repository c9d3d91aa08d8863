// Package all wires the built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package. After the import, the following
// kinds are available to storage.Open:
//
//   - "postgrest" (seeder/internal/storage/postgrest)
//   - "postgres"  (seeder/internal/storage/postgres)
//
// cmd/seeder blank-imports this package so the rest of the program depends
// only on the storage abstraction.
package all

import (
	_ "seeder/internal/storage/postgres"
	_ "seeder/internal/storage/postgrest"
)
