package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const WorkflowsTableSchema = `
	CREATE TABLE IF NOT EXISTS workflows (
		id VARCHAR PRIMARY KEY,
		title VARCHAR NOT NULL,
		steps VARCHAR,
		created_at TIMESTAMP NULL,
		updated_at TIMESTAMP NULL,
		is_running BOOLEAN NULL
	);
`

var bootQueries = []string{
	WorkflowsTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
