// Package migrations embeds the versioned SQL schema for every supported driver.
package migrations

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Source returns a migrate source driver over the SQL files for driver
// ("postgres" or "sqlite").
func Source(driver string) (source.Driver, error) {
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}

	src, err := iofs.New(files, driver)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}
	return src, nil
}
